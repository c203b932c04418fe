// Package progress draws a progress bar on stderr while comparisons
// run. A nil *Bar does nothing, so callers need not check whether the
// bar was asked for.
package progress

import (
	"io"
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar counts finished jobs out of a known total.
type Bar struct {
	pbs *mpb.Progress
	bar *mpb.Bar
}

// New returns a bar for total jobs, or nil if on is false. w defaults
// to stderr.
func New(total int, name string, on bool, w io.Writer) *Bar {
	if !on || total <= 0 {
		return nil
	}
	if w == nil {
		w = os.Stderr
	}
	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))
	bar := pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return &Bar{pbs: pbs, bar: bar}
}

// Incr marks n more jobs as done.
func (b *Bar) Incr(n int) {
	if b == nil {
		return
	}
	b.bar.IncrBy(n)
}

// Tick marks one job done. It is safe to call from many goroutines.
func (b *Bar) Tick() { b.Incr(1) }

// Wait finishes the bar. Jobs never done are dropped so Wait does not
// hang after a failure.
func (b *Bar) Wait() {
	if b == nil {
		return
	}
	if !b.bar.Completed() {
		b.bar.Abort(false)
	}
	b.pbs.Wait()
}
