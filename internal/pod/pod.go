// Package pod models hyperloop pod subsystems as dataflow components:
// magnetic levitation (breakpoint drag, magnet mass, drag at speed), linear
// induction motor thrust, compressor and pod mass rollups, and tube power.
// Formulas and default values follow the Inductrack I and NASA Glenn
// references the original analyses were built on.
package pod

import (
	"fmt"

	"github.com/san-kum/podopt/internal/mdo"
)

func domainErr(quantity, msg string) error {
	return fmt.Errorf("%w: %s (%s)", mdo.ErrNumericDomain, msg, quantity)
}
