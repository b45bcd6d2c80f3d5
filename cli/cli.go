package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/ardnew/inlinemath/cli/cmd"
	"github.com/ardnew/inlinemath/log"
	"github.com/ardnew/inlinemath/pkg"
)

// CLI is the top-level command-line interface for inlinemath.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Math  cmd.Math    `embed:"" group:"math"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Process cmd.Process `cmd:"" default:"withargs" help:"Substitute expressions in files (default)"`
	Eval    cmd.Eval    `cmd:""                    help:"Evaluate an expression"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// environment is the outside world a CLI run interacts with.
type environment struct {
	exit      func(code int)
	fs        afero.Fs
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	configDir string
	cacheDir  string
}

// Run executes the inlinemath CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	return run(ctx, environment{
		exit:      exit,
		fs:        afero.NewOsFs(),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		configDir: configPath(),
		cacheDir:  pkg.CacheDir(),
	}, args)
}

func run(ctx context.Context, env environment, args []string) error {
	var cli CLI

	configFilePath := filepath.Join(env.configDir, baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath + ".yaml",
		cmd.CacheIdentifier:  env.cacheDir,
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Math.KongVars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Config(log.WithOutput(env.stderr))

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(env.exit),
		kong.Writers(env.stdout, env.stderr),
		kong.ExplicitGroups([]kong.Group{
			cli.Log.group(),
			cli.Pprof.group(),
			cli.Math.Group(),
		}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve, configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithFs(ctx, env.fs)
	ctx = cmd.WithStdin(ctx, env.stdin)
	ctx = cmd.WithMath(ctx, &cli.Math)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
