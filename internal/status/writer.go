package status

import (
	"context"
	"time"

	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/markusressel/altreg/internal/util"
)

const DefaultRate = 1 * time.Second

// Writer periodically replaces a file with the column header and the current snapshot line.
type Writer struct {
	path  string
	rate  time.Duration
	store *store.Store
}

func NewWriter(path string, rate time.Duration, s *store.Store) *Writer {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Writer{path: path, rate: rate, store: s}
}

func (w *Writer) Run(ctx context.Context) error {
	ui.Info("Writing status to '%s' every %s", w.path, w.rate)

	tick := time.NewTicker(w.rate)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if err := w.Write(time.Now()); err != nil {
				ui.Warning("Unable to write status file: %v", err)
			}
		}
	}
}

func (w *Writer) Write(now time.Time) error {
	content := store.Header() + "\n" + w.store.Snapshot(now).Line() + "\n"
	return util.WriteFileAtomic(w.path, content)
}
