package optim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/podopt/internal/optim"
)

// sphere centered at (1, -2)
func sphere(x []float64) (float64, []float64, error) {
	dx, dy := x[0]-1, x[1]+2
	return dx*dx + dy*dy, nil, nil
}

func sphereProblem() optim.Problem {
	return optim.Problem{
		Eval:  sphere,
		Lower: []float64{-5, -5},
		Upper: []float64{5, 5},
		X0:    []float64{0, 0},
	}
}

var _ = Describe("Compass", func() {
	It("converges on a smooth bowl", func() {
		res, err := optim.NewCompass().Minimize(context.Background(), sphereProblem())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.F).To(BeNumerically("<", 1e-4))
		Expect(res.X[0]).To(BeNumerically("~", 1, 1e-2))
		Expect(res.X[1]).To(BeNumerically("~", -2, 1e-2))
	})

	It("stays inside the bounds", func() {
		p := optim.Problem{
			Eval: func(x []float64) (float64, []float64, error) {
				return x[0], nil, nil
			},
			Lower: []float64{2},
			Upper: []float64{5},
			X0:    []float64{4},
		}
		res, err := optim.NewCompass().Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.X[0]).To(BeNumerically("~", 2, 1e-3))
	})

	It("honors inequality constraints through the penalty", func() {
		p := sphereProblem()
		p.Eval = func(x []float64) (float64, []float64, error) {
			f, _, _ := sphere(x)
			// feasible when x0 >= 3
			return f, []float64{x[0] - 3}, nil
		}
		res, err := optim.NewCompass().Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.X[0]).To(BeNumerically("~", 3, 0.05))
		Expect(res.X[1]).To(BeNumerically("~", -2, 0.05))
	})

	It("stops on the iteration budget without converging", func() {
		c := &optim.Compass{MaxIter: 2, Tol: 1e-12, Step: 0.25, Penalty: 1e6}
		res, err := c.Minimize(context.Background(), sphereProblem())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeFalse())
		Expect(res.Iterations).To(Equal(2))
	})

	It("returns the best point on cancellation without error", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := optim.NewCompass().Minimize(ctx, sphereProblem())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeFalse())
		Expect(res.X).To(HaveLen(2))
	})

	It("reports iterations to the observer", func() {
		p := sphereProblem()
		var seen int
		var lastBest float64
		p.OnIteration = func(it optim.Iteration) {
			seen++
			lastBest = it.Best
		}
		res, err := optim.NewCompass().Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(BeNumerically(">", 0))
		Expect(lastBest).To(Equal(res.F))
	})

	It("rejects inconsistent problems", func() {
		p := sphereProblem()
		p.Lower = []float64{0}
		_, err := optim.NewCompass().Minimize(context.Background(), p)
		Expect(err).To(MatchError(optim.ErrBadProblem))
	})
})

var _ = Describe("NelderMead", func() {
	It("converges on a smooth bowl", func() {
		res, err := optim.NewNelderMead().Minimize(context.Background(), sphereProblem())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.F).To(BeNumerically("<", 1e-4))
		Expect(res.X[0]).To(BeNumerically("~", 1, 1e-2))
		Expect(res.X[1]).To(BeNumerically("~", -2, 1e-2))
	})

	It("converges on an elongated valley", func() {
		p := optim.Problem{
			Eval: func(x []float64) (float64, []float64, error) {
				dx, dy := x[0]-1, x[1]-1
				return 100*dx*dx + dy*dy, nil, nil
			},
			Lower: []float64{-5, -5},
			Upper: []float64{5, 5},
			X0:    []float64{-3, 4},
		}
		res, err := optim.NewNelderMead().Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.X[0]).To(BeNumerically("~", 1, 0.05))
		Expect(res.X[1]).To(BeNumerically("~", 1, 0.05))
	})

	It("stops on the iteration budget without converging", func() {
		nm := &optim.NelderMead{MaxIter: 2, Tol: 1e-16, Penalty: 1e6}
		res, err := nm.Minimize(context.Background(), sphereProblem())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeFalse())
	})

	It("propagates evaluation errors", func() {
		p := sphereProblem()
		p.Eval = func(x []float64) (float64, []float64, error) {
			return 0, nil, context.DeadlineExceeded
		}
		_, err := optim.NewNelderMead().Minimize(context.Background(), p)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Grid", func() {
	It("finds the best lattice point", func() {
		p := optim.Problem{
			Eval: func(x []float64) (float64, []float64, error) {
				d := x[0] - 0.5
				return d * d, nil, nil
			},
			Lower: []float64{0},
			Upper: []float64{1},
			X0:    []float64{0},
		}
		res, err := optim.NewGrid(11).Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Evaluations).To(Equal(11))
		Expect(res.X[0]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("prefers feasible lattice points", func() {
		p := optim.Problem{
			Eval: func(x []float64) (float64, []float64, error) {
				return x[0], []float64{x[0] - 0.6}, nil
			},
			Lower: []float64{0},
			Upper: []float64{1},
			X0:    []float64{0},
		}
		res, err := optim.NewGrid(11).Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.X[0]).To(BeNumerically("~", 0.6, 1e-9))
	})

	It("sweeps every cell of a 2D lattice", func() {
		p := sphereProblem()
		res, err := optim.NewGrid(5).Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Evaluations).To(Equal(25))
		Expect(math.Abs(res.X[0]-1)).To(BeNumerically("<=", 2.5))
	})

	It("reports each cell's own objective to the observer", func() {
		p := optim.Problem{
			Eval: func(x []float64) (float64, []float64, error) {
				d := x[0] - 0.5
				return d * d, nil, nil
			},
			Lower: []float64{0},
			Upper: []float64{1},
			X0:    []float64{0},
		}
		var fs []float64
		p.OnIteration = func(it optim.Iteration) { fs = append(fs, it.F) }
		_, err := optim.NewGrid(3).Minimize(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(fs).To(HaveLen(3))
		Expect(fs[0]).To(BeNumerically("~", 0.25, 1e-12))
		Expect(fs[1]).To(BeNumerically("~", 0.0, 1e-12))
		Expect(fs[2]).To(BeNumerically("~", 0.25, 1e-12))
	})

	It("raises the minimum point count to two", func() {
		g := optim.NewGrid(0)
		Expect(g.Points).To(Equal(2))
	})
})
