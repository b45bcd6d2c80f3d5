// Package cmd implements the inlinemath subcommands.
//
//   - [Process] substitutes the expressions embedded in files, directories or
//     standard input, writing to standard output, in place, or below an
//     output directory.
//   - [Eval] evaluates one expression and prints the result.
//   - [Repl] starts an interactive session.
//   - [Init] writes the current flag values to the configuration file.
//
// Every command receives the shared evaluation flags ([Math]), the kong
// context, the filesystem and standard input through its context.Context;
// see [WithMath], [WithContext], [WithFs] and [WithStdin].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
