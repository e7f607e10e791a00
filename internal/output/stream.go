// internal/output/stream.go
package output

import (
	"bufio"
	"io"
	"sync"
)

// Options select how runs are rendered.
type Options struct {
	Format  string
	Verbose bool // include matches
	Silent  bool // write nothing; runs are still drained
}

var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// StartRunWriter spins up a writer goroutine. Each run sent on the returned
// channel is rendered and flushed before the next is read, so a long sweep
// shows progress. Close the channel, then read exactly one value from the
// error channel. Broken pipes are not reported.
func StartRunWriter(out io.Writer, opt Options, bufSize int) (chan<- Run, <-chan error) {
	if bufSize <= 0 {
		bufSize = 16
	}
	in := make(chan Run, bufSize)
	done := make(chan error, 1)

	enc, lookupErr := lookup(opt.Format)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		err := lookupErr
		for r := range in {
			if err != nil || opt.Silent {
				continue // drain so producers never block
			}
			if err = enc(bw, r, opt.Verbose); err == nil {
				err = bw.Flush()
			}
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}

// WriteRuns renders runs synchronously.
func WriteRuns(out io.Writer, opt Options, runs ...Run) error {
	in, done := StartRunWriter(out, opt, len(runs))
	for _, r := range runs {
		in <- r
	}
	close(in)
	return <-done
}
