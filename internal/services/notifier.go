package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// LogNotifier writes reminders to a structured logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the reminder
func (n *LogNotifier) Notify(ctx context.Context, reminder Reminder) error {
	n.logger.InfoContext(ctx, "task due today",
		"task", reminder.Ref.String(),
		"title", reminder.Title,
	)
	return nil
}

// NopNotifier drops every reminder
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, Reminder) error { return nil }

// ChangeNotifier delivers task changes to the subscribers of the
// affected users. Notifications coalesce: a subscriber that has not yet
// drained its channel receives one signal for any number of changes.
type ChangeNotifier struct {
	mu     sync.Mutex
	subs   map[int]subscriber
	nextID int
}

type subscriber struct {
	uid string
	ch  chan struct{}
}

// NewChangeNotifier creates an empty broadcaster
func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{subs: make(map[int]subscriber)}
}

// Subscribe returns a channel signalled on changes to tasks uid can see,
// and a function that closes it
func (n *ChangeNotifier) Subscribe(uid string) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan struct{}, 1)
	n.subs[id] = subscriber{uid: uid, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
}

// Publish signals the subscribers of uids without blocking
func (n *ChangeNotifier) Publish(uids ...string) {
	if n == nil || len(uids) == 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		if !slices.Contains(uids, sub.uid) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}
