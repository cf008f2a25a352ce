package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/botkit"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

// ViewCmdSubscribers reports the current subscriber set. Meant to be wrapped
// in the admin-only middleware.
func ViewCmdSubscribers(registry SubscriberRegistry) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		subscribers, err := registry.All(ctx)
		if err != nil {
			return err
		}

		infos := lo.Map(subscribers, func(s model.Subscriber, _ int) string {
			return fmt.Sprintf("%d（%s）", s.ChatID, s.CreatedAt.Format("2006-01-02"))
		})

		msgText := fmt.Sprintf("当前订阅用户（%d）：\n%s", len(subscribers), strings.Join(infos, "\n"))

		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msgText)); err != nil {
			return err
		}

		return nil
	}
}
