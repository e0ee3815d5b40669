package realtime

import (
	"testing"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dispatch and subscription lifecycle are exercised directly; Run needs a
// database and is covered by integration use.

func receiveOne(t *testing.T, sub *Subscription) models.Message {
	t.Helper()
	select {
	case msg, ok := <-sub.C:
		require.True(t, ok, "feed closed unexpectedly")
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return models.Message{}
	}
}

func TestDispatchRoutesByChatID(t *testing.T) {
	l := NewListener(nil)
	subA := l.Subscribe("chat-a")
	subB := l.Subscribe("chat-b")
	defer subA.Cancel()
	defer subB.Cancel()

	l.dispatch(models.Message{ID: "m1", ChatID: "chat-a", Body: "hello"})

	got := receiveOne(t, subA)
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "hello", got.Body)

	select {
	case msg := <-subB.C:
		t.Fatalf("message %q leaked to another chat's feed", msg.ID)
	default:
	}
}

func TestDispatchReachesEverySubscriberOfAChat(t *testing.T) {
	l := NewListener(nil)
	first := l.Subscribe("chat-a")
	second := l.Subscribe("chat-a")
	defer first.Cancel()
	defer second.Cancel()

	l.dispatch(models.Message{ID: "m1", ChatID: "chat-a"})

	assert.Equal(t, "m1", receiveOne(t, first).ID)
	assert.Equal(t, "m1", receiveOne(t, second).ID)
}

func TestDispatchDropsForSlowSubscriber(t *testing.T) {
	l := NewListener(nil)
	sub := l.Subscribe("chat-a")
	defer sub.Cancel()

	for i := 0; i < subscriptionBuffer+5; i++ {
		l.dispatch(models.Message{ID: "m", ChatID: "chat-a"})
	}

	// the buffer fills up; overflow is dropped instead of blocking dispatch
	assert.Len(t, sub.ch, subscriptionBuffer)
}

func TestCancelClosesFeedAndIsIdempotent(t *testing.T) {
	l := NewListener(nil)
	sub := l.Subscribe("chat-a")

	sub.Cancel()
	sub.Cancel()

	_, ok := <-sub.C
	assert.False(t, ok)

	// delivery after cancel goes nowhere
	l.dispatch(models.Message{ID: "m1", ChatID: "chat-a"})
}

func TestCloseCancelsAllSubscriptions(t *testing.T) {
	l := NewListener(nil)
	subA := l.Subscribe("chat-a")
	subB := l.Subscribe("chat-b")

	l.Close()

	_, ok := <-subA.C
	assert.False(t, ok)
	_, ok = <-subB.C
	assert.False(t, ok)
}

func TestSubscribeAfterCloseReturnsClosedFeed(t *testing.T) {
	l := NewListener(nil)
	l.Close()

	sub := l.Subscribe("chat-a")
	_, ok := <-sub.C
	assert.False(t, ok)

	// cancelling an already-closed subscription must not panic
	sub.Cancel()
}
