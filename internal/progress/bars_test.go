package progress

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerAdvancesByBatch(t *testing.T) {
	b := New(io.Discard)
	defer b.Stop()

	tr := b.Start("EMPLOYEES", 25)
	tr.Add(10)
	tr.Add(10)
	tr.Add(5)
	tr.Done()

	bar := tr.(*tracker).bar
	assert.Equal(t, 25, bar.Current())
}

func TestTrackerPinsAtTotal(t *testing.T) {
	b := New(io.Discard)
	defer b.Stop()

	tr := b.Start("ORDERS", 5)
	tr.Add(4)
	tr.Add(4)

	assert.Equal(t, 5, tr.(*tracker).bar.Current())
}

func TestStopWithoutStart(t *testing.T) {
	assert.NotPanics(t, func() { New(io.Discard).Stop() })
}
