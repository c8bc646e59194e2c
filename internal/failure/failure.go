// Package failure defines the structured errors returned by every stage of
// the board reading pipeline.
//
// A stage that cannot satisfy its invariants returns a *Error naming the
// stage and the failure kind. Callers match kinds with errors.Is against the
// exported sentinels:
//
//	if errors.Is(err, failure.ErrGridMismatch) {
//	    // ask the user for a better photograph
//	}
//
// A failure never carries a partial result and must be treated as "no
// information", not as "the board is empty".
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindInvalidInput covers empty or malformed images and unsupported
	// channel layouts.
	KindInvalidInput Kind = iota + 1

	// KindInsufficientEvidence covers too few axis candidates, degenerate
	// spacing, and too few valid features to calibrate.
	KindInsufficientEvidence

	// KindGridMismatch is returned when the two axes resolve to different
	// board sizes or one axis fails outright.
	KindGridMismatch

	// KindCalibrationFailure is returned when no valid features exist at all.
	KindCalibrationFailure
)

// String returns the kind name used in logs and JSON output.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInsufficientEvidence:
		return "insufficient_evidence"
	case KindGridMismatch:
		return "grid_mismatch"
	case KindCalibrationFailure:
		return "calibration_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Stage names the pipeline stage that failed.
type Stage string

const (
	StageDetection      Stage = "detection"
	StageGrid           Stage = "grid"
	StageGeometry       Stage = "geometry"
	StageFeatures       Stage = "features"
	StageCalibration    Stage = "calibration"
	StageClassification Stage = "classification"
)

// Error is a stage failure.
type Error struct {
	Stage Stage
	Kind  Kind
	Msg   string
	Err   error
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrInsufficientEvidence = &Error{Kind: KindInsufficientEvidence}
	ErrGridMismatch         = &Error{Kind: KindGridMismatch}
	ErrCalibrationFailure   = &Error{Kind: KindCalibrationFailure}
)

// New creates a stage failure with a formatted message.
func New(stage Stage, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Stage: stage, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a stage failure around an underlying error.
func Wrap(stage Stage, kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Stage: stage, Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Stage != "" {
		msg = fmt.Sprintf("%s: %s", e.Stage, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// StageOf returns the failing stage of err, or "" if err is not a *Error.
func StageOf(err error) Stage {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}

// KindOf returns the failure kind of err, or 0 if err is not a *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
