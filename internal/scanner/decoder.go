// Package scanner turns the keystroke stream of a keyboard-wedge barcode
// scanner into discrete codes. Scanners type a whole code in a fast burst
// followed by Enter; slower human typing is told apart by the gap between
// characters.
package scanner

import (
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	KeyEnter = "Enter"

	DefaultThreshold = 100 * time.Millisecond
)

// State is the decoder buffer plus the time of the last accepted key.
// Times must carry a monotonic reading, or come from a monotonic source.
// HasLast is false until the first key, so any instant, including the zero
// time, is a valid Last.
type State struct {
	Buffer  string
	Last    time.Time
	HasLast bool
}

// OnKeyEvent is the pure transition function. It returns the next state and,
// when the key completed a scan, the scanned code.
func (s State) OnKeyEvent(key string, now time.Time, threshold time.Duration) (State, string, bool) {
	if isTerminator(key) {
		next := State{Last: now, HasLast: true}
		if s.Buffer == "" {
			return next, "", false
		}

		return next, s.Buffer, true
	}

	if !isCharacter(key) {
		return s, "", false
	}

	// a clock that went backwards means a new time origin, e.g. a reloaded client
	buffer := s.Buffer
	if s.HasLast && (now.Before(s.Last) || now.Sub(s.Last) > threshold) {
		buffer = ""
	}

	return State{Buffer: buffer + key, Last: now, HasLast: true}, "", false
}

func isTerminator(key string) bool {
	return key == KeyEnter || key == "\r" || key == "\n"
}

func isCharacter(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}

	r, _ := utf8.DecodeRuneInString(key)

	return unicode.IsPrint(r)
}

// Decoder is a goroutine-safe holder for a State.
type Decoder struct {
	mu        sync.Mutex
	state     State
	threshold time.Duration
	now       func() time.Time
}

func NewDecoder(threshold time.Duration) *Decoder {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return &Decoder{threshold: threshold, now: time.Now}
}

// Feed applies key at the current monotonic time.
func (d *Decoder) Feed(key string) (string, bool) {
	return d.FeedAt(key, d.now())
}

// FeedAt applies key at an explicit time, used when events carry their own
// timestamps.
func (d *Decoder) FeedAt(key string, at time.Time) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, code, ok := d.state.OnKeyEvent(key, at, d.threshold)
	d.state = next

	return code, ok
}

func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = State{}
}

// FromOffset maps a client-side monotonic offset in milliseconds onto a
// time usable with FeedAt.
func FromOffset(ms int64) time.Time {
	return time.Time{}.Add(time.Duration(ms) * time.Millisecond)
}
