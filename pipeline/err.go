package pipeline

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrPipelineEmpty = errors.New(f("pipeline has no machines"))
	ErrPhaseCount    = errors.New(f("image and phase counts differ"))
	ErrOutputEmpty   = errors.New(f("terminal machine has no output"))
	ErrProgramEmpty  = errors.New(f("manifest names no program"))
)

// ErrMachine is a fault of one machine of a pipeline.
type ErrMachine struct {
	Index int
	Err   error
}

func (err *ErrMachine) Error() string {
	return f("machine %d: %v", err.Index, err.Err)
}

func (err *ErrMachine) Unwrap() error {
	return err.Err
}

// ErrManifestKey is a manifest key that is not understood.
type ErrManifestKey string

func (err ErrManifestKey) Error() string {
	return f("manifest key '%v' unknown", string(err))
}
