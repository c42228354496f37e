package clipboard

import (
	"context"
	"errors"
	"time"
)

// DefaultInterval is the polling period of PollingSource.
const DefaultInterval = 500 * time.Millisecond

// Source yields clipboard text each time it changes externally.
type Source interface {
	// Next blocks until the clipboard holds new text or ctx is done.
	Next(ctx context.Context) (string, error)
}

// Sink receives normalized text.
type Sink interface {
	Write(text string) error
}

// PollingSource turns a Reader into a Source by polling. Text present when
// polling starts is taken as the baseline and not reported.
// A PollingSource is not safe for concurrent use.
type PollingSource struct {
	r        Reader
	interval time.Duration
	last     string
	primed   bool
}

// NewPollingSource creates a source polling r every interval.
// A non-positive interval uses DefaultInterval.
func NewPollingSource(r Reader, interval time.Duration) *PollingSource {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &PollingSource{r: r, interval: interval}
}

// Interval returns the polling period.
func (s *PollingSource) Interval() time.Duration {
	return s.interval
}

// Next implements Source. A read error is returned after the poll that
// produced it; the caller may call Next again to keep polling.
func (s *PollingSource) Next(ctx context.Context) (string, error) {
	if !s.primed {
		text, err := s.r.ReadAll()
		if errors.Is(err, ErrUnavailable) {
			return "", err
		}
		if err == nil {
			s.last, s.primed = text, true
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		text, err := s.r.ReadAll()
		if err != nil {
			return "", err
		}
		if !s.primed {
			s.last, s.primed = text, true
			continue
		}
		if text != s.last {
			s.last = text
			return text, nil
		}
	}
}
