package notifier

import (
	"context"
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/botkit/markup"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

type SubscriberProvider interface {
	All(ctx context.Context) ([]model.Subscriber, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// MessageSender is the slice of the Telegram bot API the notifier needs.
// *tgbotapi.BotAPI satisfies it.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier renders one announcement as a fixed-template message and pushes
// it to every current subscriber.
type Notifier struct {
	subscribers SubscriberProvider
	summarizer  Summarizer
	bot         MessageSender
}

func New(subscriberProvider SubscriberProvider, summarizer Summarizer, bot MessageSender) *Notifier {
	return &Notifier{
		subscribers: subscriberProvider,
		summarizer:  summarizer,
		bot:         bot,
	}
}

// Notify delivers the announcement to a snapshot of the subscriber set,
// each subscriber independently. A failed delivery is logged and never
// blocks the others; the error return covers only the snapshot read.
func (n *Notifier) Notify(ctx context.Context, announcement model.Announcement) error {
	subscribers, err := n.subscribers.All(ctx)
	if err != nil {
		return fmt.Errorf("load subscribers: %w", err)
	}

	text := n.formatAnnouncement(ctx, announcement)

	var wg sync.WaitGroup

	for _, subscriber := range subscribers {
		wg.Add(1)

		go func(chatID int64) {
			defer wg.Done()

			msg := tgbotapi.NewMessage(chatID, text)
			msg.ParseMode = tgbotapi.ModeMarkdownV2

			if _, err := n.bot.Send(msg); err != nil {
				log.Printf("[ERROR] failed to deliver announcement %s to chat %d: %v", announcement.ID, chatID, err)
			}
		}(subscriber.ChatID)
	}

	wg.Wait()

	return nil
}

func (n *Notifier) formatAnnouncement(ctx context.Context, a model.Announcement) string {
	const msgFormat = "*发现新比赛！*\n\n" +
		"*标题：*%s\n" +
		"*平台：*%s\n" +
		"*报名日期：*%s\n" +
		"*参赛要求：*%s\n" +
		"*主办方：*%s\n" +
		"*承办方：*%s\n" +
		"*详情链接：*%s%s"

	return fmt.Sprintf(
		msgFormat,
		markup.EscapeForMarkdown(a.Title),
		markup.EscapeForMarkdown(a.Platform),
		markup.EscapeForMarkdown(a.RegistrationWindow),
		markup.EscapeForMarkdown(a.Eligibility),
		markup.EscapeForMarkdown(a.Organizer),
		markup.EscapeForMarkdown(a.CoOrganizer),
		markup.EscapeForMarkdown(a.URL),
		markup.EscapeForMarkdown(n.summarize(ctx, a)),
	)
}

// An optional model-generated digest of the announcement fields. Summary
// failures degrade to no summary rather than holding up delivery.
func (n *Notifier) summarize(ctx context.Context, a model.Announcement) string {
	if n.summarizer == nil {
		return ""
	}

	text := fmt.Sprintf(
		"%s\n报名日期：%s\n参赛要求：%s\n主办方：%s\n承办方：%s",
		a.Title,
		a.RegistrationWindow,
		a.Eligibility,
		a.Organizer,
		a.CoOrganizer,
	)

	summary, err := n.summarizer.Summarize(ctx, text)
	if err != nil {
		log.Printf("[WARN] failed to summarize announcement %s: %v", a.ID, err)
		return ""
	}

	if summary == "" {
		return ""
	}

	return "\n\n" + summary
}
