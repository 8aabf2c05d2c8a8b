package main

import (
	"io"
	"sync"

	"github.com/gosuri/uiprogress"
)

// barProgress draws one terminal bar over a vectorization run.
type barProgress struct {
	out      io.Writer
	mu       sync.Mutex
	progress *uiprogress.Progress
	bar      *uiprogress.Bar
	current  string
}

func newBarProgress(out io.Writer) *barProgress {
	return &barProgress{out: out}
}

func (b *barProgress) Start(total int) {
	b.progress = uiprogress.New()
	b.progress.SetOut(b.out)
	b.progress.Start()
	b.bar = b.progress.AddBar(total)
	b.bar.AppendCompleted()
	b.bar.PrependElapsed()
	b.bar.AppendFunc(func(*uiprogress.Bar) string {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.current
	})
}

func (b *barProgress) Advance(documentID string) {
	b.mu.Lock()
	b.current = documentID
	b.mu.Unlock()
	b.bar.Incr()
}

func (b *barProgress) Stop() {
	b.progress.Stop()
}
