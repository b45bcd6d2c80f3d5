package filter

import (
	"context"
)

// Pipe processes the files received from in sequentially, in arrival order,
// on a new goroutine.
//
// Each processed file is sent on the returned file channel. Every failure,
// whether reported under the [Continue] policy or fatal for its file, is sent
// on the returned error channel; a file failing fatally is not forwarded.
// Both channels are closed when in is closed or ctx is done. The caller must
// receive from both channels until they are closed.
func (f *Filter) Pipe(ctx context.Context, in <-chan *File) (<-chan *File, <-chan error) {
	var (
		out  = make(chan *File)
		errs = make(chan error)
	)

	go func() {
		defer close(errs)
		defer close(out)

		send := func(err error) {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
		}

		for {
			var (
				file *File
				ok   bool
			)

			select {
			case <-ctx.Done():
				return
			case file, ok = <-in:
				if !ok {
					return
				}
			}

			processed, err := f.process(ctx, file, send)
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				send(err)

				continue
			}

			select {
			case out <- processed:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}
