package notifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/notifier"
)

type fakeSubscribers struct {
	subscribers []model.Subscriber
}

func (f *fakeSubscribers) All(_ context.Context) ([]model.Subscriber, error) {
	return f.subscribers, nil
}

// fakeSender records every delivered chat and can fail selected chats.
type fakeSender struct {
	mu       sync.Mutex
	failFor  map[int64]bool
	messages map[int64]string
}

func newFakeSender(failFor ...int64) *fakeSender {
	s := &fakeSender{
		failFor:  make(map[int64]bool),
		messages: make(map[int64]string),
	}
	for _, chatID := range failFor {
		s.failFor[chatID] = true
	}

	return s
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable type")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("blocked by user")
	}

	f.messages[msg.ChatID] = msg.Text

	return tgbotapi.Message{}, nil
}

func testAnnouncement() model.Announcement {
	return model.Announcement{
		ID:                 "abc",
		Title:              "2024年全国大学生广告大赛征集启事",
		URL:                "https://www.sun-ada.net/home/news/1.html",
		RegistrationWindow: "2024年3月1日至2024年5月31日",
		Eligibility:        "全国高校在校学生",
		Organizer:          "中国广告协会",
		CoOrganizer:        "未找到承办方",
		Platform:           "大广赛",
		DiscoveredAt:       time.Now().UTC(),
	}
}

func TestNotifyDeliversToAllSubscribers(t *testing.T) {
	subs := &fakeSubscribers{subscribers: []model.Subscriber{
		{ChatID: 1}, {ChatID: 2}, {ChatID: 3},
	}}
	sender := newFakeSender()

	n := notifier.New(subs, nil, sender)

	require.NoError(t, n.Notify(context.Background(), testAnnouncement()))
	require.Len(t, sender.messages, 3)

	for _, text := range sender.messages {
		require.Contains(t, text, "发现新比赛！")
		require.Contains(t, text, "2024年全国大学生广告大赛征集启事")
		require.Contains(t, text, "中国广告协会")
		require.Contains(t, text, "未找到承办方")
	}
}

func TestNotifyOneFailureDoesNotBlockOthers(t *testing.T) {
	subs := &fakeSubscribers{subscribers: []model.Subscriber{
		{ChatID: 1}, {ChatID: 2}, {ChatID: 3},
	}}
	sender := newFakeSender(2)

	n := notifier.New(subs, nil, sender)

	require.NoError(t, n.Notify(context.Background(), testAnnouncement()))

	require.Len(t, sender.messages, 2)
	require.Contains(t, sender.messages, int64(1))
	require.Contains(t, sender.messages, int64(3))
}

func TestNotifyEscapesMarkdown(t *testing.T) {
	subs := &fakeSubscribers{subscribers: []model.Subscriber{{ChatID: 1}}}
	sender := newFakeSender()

	n := notifier.New(subs, nil, sender)

	require.NoError(t, n.Notify(context.Background(), testAnnouncement()))

	// The detail link contains dots, which MarkdownV2 requires escaped.
	require.Contains(t, sender.messages[int64(1)], `https://www\.sun\-ada\.net/home/news/1\.html`)
}

func TestNotifyEmptySubscriberSet(t *testing.T) {
	sender := newFakeSender()

	n := notifier.New(&fakeSubscribers{}, nil, sender)

	require.NoError(t, n.Notify(context.Background(), testAnnouncement()))
	require.Empty(t, sender.messages)
}
