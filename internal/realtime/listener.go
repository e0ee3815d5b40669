package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// channelName is the NOTIFY channel fed by the messages insert trigger,
// see migrations/schema.sql.
const channelName = "message_inserts"

const subscriptionBuffer = 16

// Subscription is a live, append-only feed of newly inserted messages for
// one chat. Receive from C; call Cancel to stop delivery. Cancel is
// synchronous and idempotent, and C is closed once cancelled.
type Subscription struct {
	C <-chan models.Message

	ch     chan models.Message
	chatID string
	once   sync.Once
	remove func(*Subscription)
}

// Cancel stops delivery and releases the subscription. Safe to call twice.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.remove(s)
	})
}

// Listener fans newly committed message rows out to per-chat subscriptions.
// It holds one dedicated connection on LISTEN and decodes the trigger's JSON
// payload into message records.
type Listener struct {
	db *pgxpool.Pool

	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	closed bool
}

// NewListener creates a message feed listener
func NewListener(db *pgxpool.Pool) *Listener {
	return &Listener{
		db:   db,
		subs: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a live feed for one chat id
func (l *Listener) Subscribe(chatID string) *Subscription {
	ch := make(chan models.Message, subscriptionBuffer)
	sub := &Subscription{
		C:      ch,
		ch:     ch,
		chatID: chatID,
		remove: l.unsubscribe,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}

	if l.subs[chatID] == nil {
		l.subs[chatID] = make(map[*Subscription]struct{})
	}
	l.subs[chatID][sub] = struct{}{}
	return sub
}

func (l *Listener) unsubscribe(sub *Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if set, ok := l.subs[sub.chatID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(l.subs, sub.chatID)
		}
	}
	close(sub.ch)
}

// Close cancels every open subscription. Subsequent Subscribe calls return
// already-closed feeds.
func (l *Listener) Close() {
	l.mu.Lock()
	subs := l.subs
	l.subs = make(map[string]map[*Subscription]struct{})
	l.closed = true
	l.mu.Unlock()

	for _, set := range subs {
		for sub := range set {
			sub.once.Do(func() { close(sub.ch) })
		}
	}
}

// Run listens for message inserts until the context is cancelled,
// reconnecting after transient connection failures.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("Message feed listener disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", channelName, err)
	}
	log.Info().Str("channel", channelName).Msg("Message feed listener started")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed waiting for notification: %w", err)
		}

		var msg models.Message
		if err := json.Unmarshal([]byte(notification.Payload), &msg); err != nil {
			log.Warn().Err(err).Msg("Failed to decode message notification payload")
			continue
		}
		l.dispatch(msg)
	}
}

// dispatch delivers a decoded row to every subscription for its chat.
// Delivery is non-blocking; a subscriber that stopped draining its channel
// loses messages rather than stalling the feed.
func (l *Listener) dispatch(msg models.Message) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for sub := range l.subs[msg.ChatID] {
		select {
		case sub.ch <- msg:
		default:
			log.Warn().Str("chat_id", msg.ChatID).Msg("Dropping message for slow subscriber")
		}
	}
}
