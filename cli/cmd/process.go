package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/readahead"
	"github.com/spf13/afero"

	"github.com/ardnew/inlinemath/filter"
	"github.com/ardnew/inlinemath/log"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Permission modes of files and directories created by commands.
const (
	defaultFileMode os.FileMode = 0o644
	defaultDirMode  os.FileMode = 0o755
)

// Process substitutes the expressions embedded in files.
type Process struct {
	Paths   []string `arg:""                                                  help:"Files or directories to process, or '-' for stdin" name:"path"      optional:""`
	Ext     []string `help:"Only process files with these extensions when walking directories" placeholder:"EXT"`
	InPlace bool     `help:"Rewrite each file in place"                       short:"i"                                                 xor:"output"`
	OutDir  string   `help:"Write each result below DIR"                      placeholder:"DIR"                                         short:"o"   type:"path" xor:"output"`
}

// source is one input of a [Process] run.
type source struct {
	path string // empty for stdin
	rel  string // path of the result below --out-dir
	mode os.FileMode
}

// Run executes the process command.
func (p *Process) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	fs := fsFrom(ctx)
	math := mathFrom(ctx)

	flt, err := math.Filter(ctx, fs)
	if err != nil {
		return err
	}

	sources, err := p.sources(fs)
	if err != nil {
		return err
	}

	// Every file is allocated before the loader starts so that origin is only
	// ever read by this goroutine.
	files := make([]*filter.File, len(sources))
	origin := make(map[*filter.File]source, len(sources))

	for i, src := range sources {
		files[i] = &filter.File{Path: src.path}
		origin[files[i]] = src
	}

	in := make(chan *filter.File)

	go func() {
		defer close(in)

		stdin := stdinFrom(ctx)

		for i, file := range files {
			if err := load(fs, stdin, sources[i], file); err != nil {
				cancel(err)

				return
			}

			select {
			case in <- file:
			case <-ctx.Done():
				return
			}
		}
	}()

	out, errs := flt.Pipe(ctx, in)

	var failed int

	for out != nil || errs != nil {
		select {
		case file, ok := <-out:
			if !ok {
				out = nil

				continue
			}

			if err := p.write(ctx, fs, origin[file], file); err != nil {
				return err
			}

		case e, ok := <-errs:
			if !ok {
				errs = nil

				continue
			}

			failed++

			log.ErrorContext(ctx, "expression failed", slog.Any("error", e))

			if math.FailFast {
				return ErrFailed.Wrap(e)
			}
		}
	}

	if err := context.Cause(ctx); err != nil {
		return err
	}

	log.DebugContext(ctx, "processed",
		slog.Int("files", len(files)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return ErrFailed.With(slog.Int("count", failed))
	}

	return nil
}

// sources expands the path arguments into the files to process, in
// argument order. Directories are walked in lexical order.
func (p *Process) sources(fs afero.Fs) ([]source, error) {
	paths := p.Paths
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		srcs  []source
		seen  = make(map[string]struct{})
		stdin bool
	)

	add := func(src source) {
		if _, ok := seen[src.path]; ok {
			return
		}

		seen[src.path] = struct{}{}
		srcs = append(srcs, src)
	}

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				stdin = true

				srcs = append(srcs, source{})
			}

			continue
		}

		path = filepath.Clean(path)

		info, err := fs.Stat(path)
		if err != nil {
			return nil, ErrReadSource.With(slog.String("path", path)).Wrap(err)
		}

		if !info.IsDir() {
			add(source{path: path, rel: filepath.Base(path), mode: info.Mode().Perm()})

			continue
		}

		err = afero.Walk(fs, path, func(name string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !fi.Mode().IsRegular() || !p.match(name) {
				return nil
			}

			rel, err := filepath.Rel(path, name)
			if err != nil {
				return err
			}

			add(source{path: name, rel: rel, mode: fi.Mode().Perm()})

			return nil
		})
		if err != nil {
			return nil, ErrReadSource.With(slog.String("path", path)).Wrap(err)
		}
	}

	return srcs, nil
}

// match reports whether a file found by walking a directory is selected by
// --ext. Every file is selected when no extension is given.
func (p *Process) match(name string) bool {
	if len(p.Ext) == 0 {
		return true
	}

	ext := filepath.Ext(name)

	return slices.ContainsFunc(p.Ext, func(e string) bool {
		return strings.EqualFold(ext, "."+strings.TrimPrefix(e, "."))
	})
}

// load reads the contents of src into file.
func load(fs afero.Fs, stdin io.Reader, src source, file *filter.File) error {
	r := stdin

	if src.path != "" {
		f, err := fs.Open(src.path)
		if err != nil {
			return ErrReadSource.With(slog.String("path", src.path)).Wrap(err)
		}
		defer f.Close()

		r = f
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return ErrReadSource.With(slog.String("path", src.path)).Wrap(err)
	}

	file.Contents = data

	return nil
}

// write emits a processed file to its destination.
func (p *Process) write(
	ctx context.Context,
	fs afero.Fs,
	src source,
	file *filter.File,
) error {
	var dest string

	switch {
	case src.path == "":
	case p.InPlace:
		dest = src.path
	case p.OutDir != "":
		dest = filepath.Join(p.OutDir, src.rel)
	}

	if dest == "" {
		if _, err := stdoutFrom(ctx).Write(file.Contents); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	attr := slog.String("file", dest)

	if err := fs.MkdirAll(filepath.Dir(dest), defaultDirMode); err != nil {
		return ErrWriteOutput.With(attr).Wrap(err)
	}

	mode := src.mode
	if mode == 0 {
		mode = defaultFileMode
	}

	if err := afero.WriteFile(fs, dest, file.Contents, mode); err != nil {
		return ErrWriteOutput.With(attr).Wrap(err)
	}

	log.DebugContext(ctx, "wrote file", slog.String("source", src.path), attr)

	return nil
}
