package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/inlinemath/calc"
)

// Eval evaluates an expression against the bound variables.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate; multiple arguments are joined by spaces" name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src := strings.TrimSpace(strings.Join(e.Expr, " "))
	if src == "" {
		return ErrNoExpression
	}

	flt, err := mathFrom(ctx).Filter(ctx, fsFrom(ctx))
	if err != nil {
		return err
	}

	session := flt.Session()

	result, err := session.Evaluate(ctx, src)
	if err != nil {
		return calc.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("expression", src),
		)
	}

	_, err = fmt.Fprintln(stdoutFrom(ctx), calc.Format(result, session.Config()))

	return err
}
