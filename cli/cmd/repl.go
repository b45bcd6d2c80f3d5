package cmd

import (
	"context"

	"github.com/ardnew/inlinemath/cli/cmd/repl"
	"github.com/ardnew/inlinemath/log"
	"github.com/ardnew/inlinemath/pkg"
)

// Repl starts an interactive session against the bound variables.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	fs := fsFrom(ctx)

	flt, err := mathFrom(ctx).Filter(ctx, fs)
	if err != nil {
		return err
	}

	cacheDir := kongVar(ctx, CacheIdentifier, pkg.CacheDir())

	return repl.Run(ctx, flt.Session(), fs, cacheDir, log.Default())
}
