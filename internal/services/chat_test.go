package services

import (
	"context"
	"testing"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/models"
	"github.com/Huzaifa084/HalalClassified/internal/realtime"
	"github.com/Huzaifa084/HalalClassified/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatStore struct {
	chats []models.Chat
}

func (f *fakeChatStore) Find(ctx context.Context, adID, buyerID, sellerID string) (*models.Chat, error) {
	for _, chat := range f.chats {
		if chat.AdID == adID && chat.BuyerID == buyerID && chat.SellerID == sellerID {
			found := chat
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeChatStore) Create(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	// mirrors the unique index: a concurrent insert converges on the existing row
	if existing, err := f.Find(ctx, chat.AdID, chat.BuyerID, chat.SellerID); err == nil {
		return existing, nil
	}
	f.chats = append(f.chats, *chat)
	created := *chat
	return &created, nil
}

func (f *fakeChatStore) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	var out []models.Chat
	for _, chat := range f.chats {
		if chat.BuyerID == userID || chat.SellerID == userID {
			out = append(out, chat)
		}
	}
	return out, nil
}

func (f *fakeChatStore) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	for _, chat := range f.chats {
		if chat.ID == id {
			found := chat
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeMessageStore struct {
	messages []models.Message
}

func (f *fakeMessageStore) ListByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range f.messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) Insert(ctx context.Context, msg *models.Message) error {
	f.messages = append(f.messages, *msg)
	return nil
}

type fakeProfileStore struct {
	profiles map[string]models.Profile
}

func (f *fakeProfileStore) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

func (f *fakeProfileStore) Upsert(ctx context.Context, upsert models.ProfileUpsert) (*models.Profile, error) {
	profile := f.profiles[upsert.ID]
	profile.ID = upsert.ID
	if upsert.PushToken != nil {
		profile.PushToken = upsert.PushToken
	}
	f.profiles[upsert.ID] = profile
	return &profile, nil
}

type fakeFeed struct {
	lastChatID string
	sub        *realtime.Subscription
}

func (f *fakeFeed) Subscribe(chatID string) *realtime.Subscription {
	f.lastChatID = chatID
	return f.sub
}

type pushDelivery struct {
	token  string
	chatID string
	body   string
}

type fakeNotifier struct {
	delivered chan pushDelivery
}

func (f *fakeNotifier) NotifyMessage(ctx context.Context, deviceToken string, chat models.Chat, msg models.Message) error {
	f.delivered <- pushDelivery{token: deviceToken, chatID: chat.ID, body: msg.Body}
	return nil
}

func TestGetOrCreateChatIsIdempotent(t *testing.T) {
	chats := &fakeChatStore{}
	svc := NewChatService(chats, &fakeMessageStore{}, &fakeFeed{}, &fakeProfileStore{}, nil)
	ctx := context.Background()

	first, err := svc.GetOrCreateChat(ctx, "ad-1", "buyer-1", "seller-1")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.GetOrCreateChat(ctx, "ad-1", "buyer-1", "seller-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, chats.chats, 1)
}

func TestGetOrCreateChatDistinguishesTriples(t *testing.T) {
	chats := &fakeChatStore{}
	svc := NewChatService(chats, &fakeMessageStore{}, &fakeFeed{}, &fakeProfileStore{}, nil)
	ctx := context.Background()

	a, err := svc.GetOrCreateChat(ctx, "ad-1", "buyer-1", "seller-1")
	require.NoError(t, err)
	b, err := svc.GetOrCreateChat(ctx, "ad-2", "buyer-1", "seller-1")
	require.NoError(t, err)
	c, err := svc.GetOrCreateChat(ctx, "ad-1", "buyer-2", "seller-1")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Len(t, chats.chats, 3)
}

func TestChatAbsentForUnknownID(t *testing.T) {
	svc := NewChatService(&fakeChatStore{}, &fakeMessageStore{}, &fakeFeed{}, &fakeProfileStore{}, nil)

	chat, err := svc.Chat(context.Background(), "no-such-chat")
	require.NoError(t, err)
	assert.Nil(t, chat)
}

func TestSendMessagePersists(t *testing.T) {
	messages := &fakeMessageStore{}
	svc := NewChatService(&fakeChatStore{}, messages, &fakeFeed{}, &fakeProfileStore{}, nil)
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, "chat-1", "buyer-1", "Is the bull still available?")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "chat-1", msg.ChatID)

	history, err := svc.Messages(ctx, "chat-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Is the bull still available?", history[0].Body)
}

func TestSendMessageNotifiesCounterpart(t *testing.T) {
	chats := &fakeChatStore{chats: []models.Chat{
		{ID: "chat-1", AdID: "ad-1", BuyerID: "buyer-1", SellerID: "seller-1"},
	}}
	token := "seller-device-token"
	profiles := &fakeProfileStore{profiles: map[string]models.Profile{
		"seller-1": {ID: "seller-1", PushToken: &token},
	}}
	notifier := &fakeNotifier{delivered: make(chan pushDelivery, 1)}
	svc := NewChatService(chats, &fakeMessageStore{}, &fakeFeed{}, profiles, notifier)

	_, err := svc.SendMessage(context.Background(), "chat-1", "buyer-1", "salam")
	require.NoError(t, err)

	select {
	case delivery := <-notifier.delivered:
		assert.Equal(t, "seller-device-token", delivery.token)
		assert.Equal(t, "chat-1", delivery.chatID)
		assert.Equal(t, "salam", delivery.body)
	case <-time.After(2 * time.Second):
		t.Fatal("push notification never delivered")
	}
}

func TestSendMessageSkipsPushWithoutToken(t *testing.T) {
	chats := &fakeChatStore{chats: []models.Chat{
		{ID: "chat-1", AdID: "ad-1", BuyerID: "buyer-1", SellerID: "seller-1"},
	}}
	profiles := &fakeProfileStore{profiles: map[string]models.Profile{
		"seller-1": {ID: "seller-1"},
	}}
	notifier := &fakeNotifier{delivered: make(chan pushDelivery, 1)}
	svc := NewChatService(chats, &fakeMessageStore{}, &fakeFeed{}, profiles, notifier)

	_, err := svc.SendMessage(context.Background(), "chat-1", "seller-1", "still there?")
	require.NoError(t, err)

	select {
	case <-notifier.delivered:
		t.Fatal("push delivered to a user without a device token")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestObserveMessagesDelegatesToFeed(t *testing.T) {
	feed := &fakeFeed{sub: &realtime.Subscription{}}
	svc := NewChatService(&fakeChatStore{}, &fakeMessageStore{}, feed, &fakeProfileStore{}, nil)

	sub := svc.ObserveMessages("chat-7")
	assert.Same(t, feed.sub, sub)
	assert.Equal(t, "chat-7", feed.lastChatID)
}
