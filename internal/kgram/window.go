package kgram

import (
	"strconv"
	"strings"

	kerrors "kgram/internal/errors"
)

// Window is a circular buffer of the last k normalized words. Each word
// pushed after the buffer is full overwrites the oldest slot, so every
// k-gram is read out of the buffer instead of re-slicing the word stream.
type Window struct {
	buf     []string
	pos     int
	filled  int
	words   int
	emitted int
	sb      strings.Builder
}

// NewWindow creates a window of k slots.
func NewWindow(k int) (*Window, error) {
	if k < 1 {
		return nil, kerrors.NewConfigurationError("k", strconv.Itoa(k), "must be a positive integer")
	}
	return &Window{buf: make([]string, k)}, nil
}

// K returns the window size.
func (w *Window) K() int { return len(w.buf) }

// Push adds the next normalized word. Once k words have been seen, every
// push completes a k-gram, returned with ok set.
func (w *Window) Push(word string) (gram string, ok bool) {
	k := len(w.buf)
	w.words++
	if w.filled < k {
		w.buf[w.filled] = word
		w.filled++
		if w.filled < k {
			return "", false
		}
		// primed: slots 0..k-1 hold the first k-gram, pos stays 0
		return w.read(), true
	}
	w.buf[w.pos] = word
	w.pos = (w.pos + 1) % k
	return w.read(), true
}

// read joins the k slots starting at pos, wrapping around.
func (w *Window) read() string {
	k := len(w.buf)
	w.sb.Reset()
	for i := 0; i < k; i++ {
		if i > 0 {
			w.sb.WriteByte(' ')
		}
		w.sb.WriteString(w.buf[(w.pos+i)%k])
	}
	w.emitted++
	return w.sb.String()
}

// Words returns how many words have been pushed.
func (w *Window) Words() int { return w.words }

// Emitted returns the number of k-grams produced, duplicates included.
func (w *Window) Emitted() int { return w.emitted }

// Reset empties the window for reuse on another document.
func (w *Window) Reset() {
	for i := range w.buf {
		w.buf[i] = ""
	}
	w.pos, w.filled, w.words, w.emitted = 0, 0, 0, 0
}
