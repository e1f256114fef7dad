// Package progress renders one terminal progress bar per copied table.
package progress

import (
	"fmt"
	"io"

	"github.com/gosuri/uiprogress"

	"table-migrator/internal/migrate"
)

type Bars struct {
	p       *uiprogress.Progress
	started bool
}

func New(out io.Writer) *Bars {
	p := uiprogress.New()
	p.SetOut(out)
	return &Bars{p: p}
}

// Start adds a bar for table. Rendering begins with the first bar.
func (b *Bars) Start(table string, total int64) migrate.Tracker {
	if !b.started {
		b.p.Start()
		b.started = true
	}

	bar := b.p.AddBar(int(total)).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(*uiprogress.Bar) string {
		return fmt.Sprintf("%-24s", table)
	})
	bar.AppendFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%d/%d rows", b.Current(), b.Total)
	})
	return &tracker{bar: bar}
}

// Stop flushes and stops rendering. Safe to call when nothing was started.
func (b *Bars) Stop() {
	if b.started {
		b.p.Stop()
		b.started = false
	}
}

type tracker struct {
	bar *uiprogress.Bar
}

func (t *tracker) Add(n int) {
	// Set rejects values past the total; a source growing mid-copy just pins the bar.
	if err := t.bar.Set(t.bar.Current() + n); err != nil {
		_ = t.bar.Set(t.bar.Total)
	}
}

func (t *tracker) Done() {}

var _ migrate.Progress = (*Bars)(nil)
