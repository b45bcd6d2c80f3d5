package filter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/inlinemath/calc"
)

// Predefined errors (sentinel values).
var (
	ErrUnsupportedInputKind = calc.NewError("streaming is not supported")
	ErrEvaluation           = calc.NewError("expression failed")
)

// EvaluationError describes an expression that could not be evaluated.
type EvaluationError struct {
	File       string // base name of the file, or UnknownFile
	Line       int    // 1-based line of the marker, 0 on the first line
	Expression string
	Err        error
}

// Message returns the message of the underlying failure.
func (e *EvaluationError) Message() string {
	var ce *calc.Error
	if errors.As(e.Err, &ce) {
		return ce.Message()
	}

	if e.Err == nil {
		return ErrEvaluation.Error()
	}

	return e.Err.Error()
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %s at line %d\n       %s",
		e.File, e.Message(), e.Line, e.Expression)
}

// Unwrap returns both [ErrEvaluation] and the underlying failure.
func (e *EvaluationError) Unwrap() []error {
	return []error{ErrEvaluation, e.Err}
}

// LogValue implements slog.LogValuer.
func (e *EvaluationError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", e.File),
		slog.Int("line", e.Line),
		slog.String("expression", e.Expression),
		slog.String("cause", e.Message()),
	)
}
