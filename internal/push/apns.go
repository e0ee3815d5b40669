package push

import (
	"context"
	"fmt"

	"github.com/Huzaifa084/HalalClassified/internal/models"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// Notifier delivers new-message alerts over APNs
type Notifier struct {
	client *apns2.Client
	topic  string
}

// New creates a token-based APNs notifier from a .p8 signing key
func New(keyFile, keyID, teamID, topic string, production bool) (*Notifier, error) {
	authKey, err := token.AuthKeyFromFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	})
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &Notifier{client: client, topic: topic}, nil
}

// NotifyMessage alerts a device about a newly received chat message
func (n *Notifier) NotifyMessage(ctx context.Context, deviceToken string, chat models.Chat, msg models.Message) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       n.topic,
		Payload: payload.NewPayload().
			AlertTitle("New message").
			AlertBody(msg.Body).
			Custom("chat_id", chat.ID).
			Custom("ad_id", chat.AdID),
	}

	res, err := n.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("notification rejected: %s", res.Reason)
	}
	return nil
}
