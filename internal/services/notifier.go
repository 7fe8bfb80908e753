package services

import (
	"context"
	"sync"
	"time"

	"github.com/fleetora/rental-api/pkg/logger"
)

// Notifier delivers operational warnings to back-office staff.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// LogNotifier writes notifications to the application log. Repeats of the
// same subject within the interval are dropped so a stuck lease does not
// flood the log on every sweep.
type LogNotifier struct {
	mu       sync.Mutex
	interval time.Duration
	lastSent map[string]time.Time
	now      func() time.Time
}

// NewLogNotifier creates a log-backed notifier that suppresses duplicate
// subjects within the given interval.
func NewLogNotifier(interval time.Duration) *LogNotifier {
	return &LogNotifier{
		interval: interval,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (n *LogNotifier) Notify(_ context.Context, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if last, ok := n.lastSent[subject]; ok && now.Sub(last) < n.interval {
		return nil
	}
	n.lastSent[subject] = now

	logger.Warn("[Notify] "+subject, "detail", body)
	return nil
}
