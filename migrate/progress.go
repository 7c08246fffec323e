package migrate

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type progress interface {
	Increment()
	Done()
}

type noProgress struct{}

func (noProgress) Increment() {}
func (noProgress) Done()      {}

type barProgress struct {
	p     *mpb.Progress
	bar   *mpb.Bar
	total int64
}

func (b *barProgress) Increment() {
	b.bar.Increment()
}

// Done completes the bar even if some pages were skipped, and waits for it to flush.
func (b *barProgress) Done() {
	if b.total > 0 {
		// SetTotal is a no-op on a bar created with a positive total.
		b.bar.SetCurrent(b.total)
	} else {
		b.bar.SetTotal(-1, true)
	}
	b.p.Wait()
}

// pageLogLevel is the level for per-page progress lines.  With a bar on screen they'd tear it, so
// they go to debug.
func (m *Migrator) pageLogLevel() slog.Level {
	if m.ShowProgress {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func (m *Migrator) newProgress(spaceKey string, total int) progress {
	if !m.ShowProgress {
		return noProgress{}
	}
	out := m.progressOut
	if out == nil {
		out = os.Stderr
	}
	return newBarProgress(out, spaceKey, total)
}

func newBarProgress(w io.Writer, spaceKey string, total int) *barProgress {
	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(w))

	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("%s:", spaceKey),
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
			decor.Spinner([]string{" /", " -", " \\", " |"}),
		),
	)

	return &barProgress{p: p, bar: bar, total: int64(total)}
}
