package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/podopt/internal/mdo"
)

type ExportData struct {
	Model     string             `json:"model"`
	Optimizer string             `json:"optimizer,omitempty"`
	Namespace map[string]float64 `json:"namespace"`
	History   []float64          `json:"history,omitempty"`
}

func exportTo(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes a namespace snapshot (and optional optimization history)
// to a file.
func ExportJSON(path, model, optimizer string, snap mdo.Snapshot, history []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportTo(file, ExportData{Model: model, Optimizer: optimizer, Namespace: snap, History: history})
}

// ExportJSONStdout writes a namespace snapshot to standard output.
func ExportJSONStdout(model, optimizer string, snap mdo.Snapshot, history []float64) error {
	return exportTo(os.Stdout, ExportData{Model: model, Optimizer: optimizer, Namespace: snap, History: history})
}
