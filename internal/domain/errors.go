package domain

import "fmt"

// SourceReadError reports a spatial source that could not be read or parsed,
// or whose required attributes were absent. Fatal to the run.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("read source %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// UnsupportedFrameError reports that no transform path exists between two
// reference frames. Fatal to the run.
type UnsupportedFrameError struct {
	From ReferenceFrame
	To   ReferenceFrame
	Err  error
}

func (e *UnsupportedFrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no transform from %s to %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("no transform from %s to %s", e.From, e.To)
}

func (e *UnsupportedFrameError) Unwrap() error { return e.Err }

// InvalidRadiusError reports a non-positive buffer radius.
type InvalidRadiusError struct {
	RadiusMeters float64
}

func (e *InvalidRadiusError) Error() string {
	return fmt.Sprintf("buffer radius must be positive, got %g m", e.RadiusMeters)
}
