package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/tomakado/containers/set"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/botkit"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

type SubscriberRegistry interface {
	Subscribe(ctx context.Context, chatID int64) error
	Unsubscribe(ctx context.Context, chatID int64) error
	All(ctx context.Context) ([]model.Subscriber, error)
}

// ViewCmdSubscribe adds the chat to the push list. Subscribing twice is a
// no-op; the reply just tells the user they are already on the list.
func ViewCmdSubscribe(registry SubscriberRegistry) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		chatID := update.Message.Chat.ID

		subscribers, err := registry.All(ctx)
		if err != nil {
			return err
		}

		chatIDs := set.New(lo.Map(subscribers, func(s model.Subscriber, _ int) int64 {
			return s.ChatID
		})...)

		if chatIDs.Contains(chatID) {
			if _, err := bot.Send(tgbotapi.NewMessage(chatID, "您已订阅比赛信息推送。")); err != nil {
				return err
			}

			return nil
		}

		if err := registry.Subscribe(ctx, chatID); err != nil {
			return err
		}

		if _, err := bot.Send(tgbotapi.NewMessage(chatID, "订阅成功！您将收到最新的比赛信息推送。")); err != nil {
			return err
		}

		return nil
	}
}

// ViewCmdUnsubscribe removes the chat from the push list. Removing an
// absent chat is a no-op.
func ViewCmdUnsubscribe(registry SubscriberRegistry) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		chatID := update.Message.Chat.ID

		if err := registry.Unsubscribe(ctx, chatID); err != nil {
			return err
		}

		if _, err := bot.Send(tgbotapi.NewMessage(chatID, "已取消订阅。")); err != nil {
			return err
		}

		return nil
	}
}
