package scanner

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

var ErrAlreadyAttached = errors.New("scanner listener is already attached")

// Listener reads runes from a device stream and reports every completed
// scan to onScan. The device must deliver keys unbuffered (raw mode), or
// the inter-character timing is lost.
type Listener struct {
	decoder *Decoder
	onScan  func(code string)
	logger  *slog.Logger

	mu        sync.Mutex
	source    io.ReadCloser
	done      chan struct{}
	detaching atomic.Bool
}

func NewListener(decoder *Decoder, onScan func(code string), logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}

	return &Listener{decoder: decoder, onScan: onScan, logger: logger}
}

// Attach starts reading source in the background.
func (l *Listener) Attach(source io.ReadCloser) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.source != nil {
		return ErrAlreadyAttached
	}

	l.source = source
	l.done = make(chan struct{})
	l.detaching.Store(false)

	go l.run(source, l.done)

	return nil
}

// Detach closes the source and waits for the read loop to exit. It is safe
// to call on a listener that was never attached.
func (l *Listener) Detach() error {
	l.mu.Lock()
	source, done := l.source, l.done
	l.source = nil
	l.mu.Unlock()

	if source == nil {
		return nil
	}

	l.detaching.Store(true)
	err := source.Close()
	<-done
	l.decoder.Reset()

	return err
}

// Done is closed when the current read loop exits.
func (l *Listener) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.done
}

func (l *Listener) run(source io.Reader, done chan struct{}) {
	defer close(done)

	reader := bufio.NewReader(source)

	for {
		r, _, err := reader.ReadRune()
		if err != nil {
			if !l.detaching.Load() && !errors.Is(err, io.EOF) {
				l.logger.Error("Scanner device read failed", slog.Any("error", err))
			}
			return
		}

		if code, ok := l.decoder.Feed(string(r)); ok {
			l.logger.Debug("Barcode scanned", slog.String("code", code))
			l.onScan(code)
		}
	}
}
