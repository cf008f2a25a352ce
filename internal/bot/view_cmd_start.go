package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/botkit"
)

const welcomeText = `欢迎使用比赛信息推送机器人！
可用命令：
/subscribe - 订阅比赛信息
/unsubscribe - 取消订阅
/latest - 查看最近发现的比赛`

func ViewCmdStart() botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		if _, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, welcomeText)); err != nil {
			return err
		}

		return nil
	}
}
