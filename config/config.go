// Package config implements document-level settings loaded from a JSON
// file: measurement unit/label suffix, solver tolerance overrides, and
// log-file setup. Grounded on inp/sim.go's Data struct (global JSON
// simulation settings with a PostProcess step) and inp/logging.go's
// InitLogFile/FlushLog pair.
package config

import (
	"encoding/json"
	"log"
	"os"

	"github.com/cpmech/gosl/utl"
	"github.com/dporeiro/gosketch/solve"
)

// Data holds the settings read from a .gosketch.json document file.
type Data struct {
	// document settings
	Unit        string `json:"unit"`        // e.g. "mm", "in", "m"
	LabelSuffix bool   `json:"labelSuffix"` // append the unit to dimension labels
	DirOut      string `json:"dirout"`      // directory for STL/log output

	// solver tolerance overrides (zero value means "use the built-in default")
	MaxAcceptedSteps int     `json:"maxAcceptedSteps"`
	Lambda0          float64 `json:"lambda0"`
	LambdaFloor      float64 `json:"lambdaFloor"`
	LambdaCap        float64 `json:"lambdaCap"`
	ConvergenceEps   float64 `json:"convergenceEps"`

	// derived
	FnameKey string `json:"-"`
}

// SetDefault fills in the document defaults (spec's implied default
// unit is unspecified; millimeters mirrors common CAD-kernel practice).
func (d *Data) SetDefault() {
	if d.Unit == "" {
		d.Unit = "mm"
	}
	if d.DirOut == "" {
		d.DirOut = "."
	}
}

// Load reads and decodes a document settings file, applying defaults
// to any field left at its zero value.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var d Data
	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return nil, err
	}
	d.SetDefault()
	return &d, nil
}

// Apply pushes solver overrides from d into package solve's tunable
// package vars; fields left at zero keep solve's built-in default.
func (d *Data) Apply() {
	if d.MaxAcceptedSteps != 0 {
		solve.MaxAcceptedSteps = d.MaxAcceptedSteps
	}
	if d.Lambda0 != 0 {
		solve.Lambda0 = d.Lambda0
	}
	if d.LambdaFloor != 0 {
		solve.LambdaFloor = d.LambdaFloor
	}
	if d.LambdaCap != 0 {
		solve.LambdaCap = d.LambdaCap
	}
	if d.ConvergenceEps != 0 {
		solve.ConvergenceEps = d.ConvergenceEps
	}
}

// Label formats a dimension value with the document's unit suffix when
// LabelSuffix is enabled, otherwise bare.
func (d *Data) Label(value float64) string {
	if d.LabelSuffix {
		return utl.Sf("%g%s", value, d.Unit)
	}
	return utl.Sf("%g", value)
}

var logFile *os.File

// InitLogFile opens dirout/fnamekey.log and redirects the standard
// logger to it, the way inp.InitLogFile does for gofem's simulation
// log (single-process here, so no MPI rank suffix).
func InitLogFile(dirout, fnamekey string) error {
	if err := os.MkdirAll(dirout, 0777); err != nil {
		return err
	}
	f, err := os.Create(utl.Sf("%s/%s.log", dirout, fnamekey))
	if err != nil {
		return err
	}
	logFile = f
	log.SetOutput(f)
	return nil
}

// FlushLog closes the log file opened by InitLogFile.
func FlushLog() {
	if logFile != nil {
		logFile.Close()
	}
}
