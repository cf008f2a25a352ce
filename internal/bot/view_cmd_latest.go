package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/botkit"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/botkit/markup"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/model"
)

type AnnouncementLister interface {
	LastDiscovered(ctx context.Context, limit uint64) ([]model.Announcement, error)
}

const latestLimit = 5

// ViewCmdLatest replies with the most recently discovered announcements.
func ViewCmdLatest(lister AnnouncementLister) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		announcements, err := lister.LastDiscovered(ctx, latestLimit)
		if err != nil {
			return err
		}

		if len(announcements) == 0 {
			if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "暂时没有发现任何比赛。")); err != nil {
				return err
			}

			return nil
		}

		infos := lo.Map(announcements, func(a model.Announcement, _ int) string {
			return formatAnnouncement(a)
		})

		reply := tgbotapi.NewMessage(
			update.Message.Chat.ID,
			fmt.Sprintf("最近发现的比赛（%d）：\n\n%s", len(announcements), strings.Join(infos, "\n\n")),
		)
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}

		return nil
	}
}

func formatAnnouncement(a model.Announcement) string {
	return fmt.Sprintf(
		"🏆 *%s*\n报名日期：%s\n链接：%s",
		markup.EscapeForMarkdown(a.Title),
		markup.EscapeForMarkdown(a.RegistrationWindow),
		markup.EscapeForMarkdown(a.URL),
	)
}
