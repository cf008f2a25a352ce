package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/bot"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/bot/middleware"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/botkit"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/config"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/extractor"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/fetcher"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/matcher"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/notifier"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/ocr"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/source"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/storage"
	"github.com/kovalyov-valentin/competition-feed-bot/internal/summary"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	botAPI, err := tgbotapi.NewBotAPI(config.Get().TelegramBotToken)
	if err != nil {
		log.Printf("[ERROR] failed to create bot: %v", err)
		return
	}

	db, err := sqlx.Connect("postgres", config.Get().DatabaseDSN)
	if err != nil {
		log.Printf("[ERROR] failed to connect to database: %v", err)
		return
	}
	defer db.Close()

	if err := storage.Bootstrap(ctx, db); err != nil {
		log.Printf("[ERROR] failed to bootstrap database schema: %v", err)
		return
	}

	recognizer, err := ocr.NewGeminiRecognizer(ctx, config.Get().GeminiAPIKey, config.Get().GeminiModel)
	if err != nil {
		log.Printf("[ERROR] failed to create text recognizer: %v", err)
		return
	}

	// Every transport call in the pipeline goes through this client, so a
	// stuck site never blocks a pass forever.
	httpClient := &http.Client{Timeout: config.Get().HTTPTimeout}

	listingSource, err := source.NewListingSource(
		httpClient,
		config.Get().SiteBaseURL,
		config.Get().ListingPath,
		config.Get().RelevanceKeywords,
	)
	if err != nil {
		log.Printf("[ERROR] failed to create listing source: %v", err)
		return
	}

	families := matcher.DefaultFamilies()

	contentExtractor, err := extractor.New(httpClient, recognizer, families, config.Get().SiteBaseURL)
	if err != nil {
		log.Printf("[ERROR] failed to create content extractor: %v", err)
		return
	}

	announcementStorage := storage.NewAnnouncementStorage(db)
	subscriberStorage := storage.NewSubscriberStorage(db)

	announcementNotifier := notifier.New(
		subscriberStorage,
		summary.NewOpenAISummarizer(config.Get().OpenAIKey, config.Get().OpenAIPromt),
		botAPI,
	)

	pipeline := fetcher.New(
		listingSource,
		contentExtractor,
		announcementStorage,
		announcementNotifier,
		families,
		config.Get().FetchInterval,
		config.Get().PlatformLabel,
		config.Get().NotifyOnExtractFailure,
	)

	competitionBot := botkit.New(botAPI)
	competitionBot.RegisterCmdView("start", bot.ViewCmdStart())
	competitionBot.RegisterCmdView("subscribe", bot.ViewCmdSubscribe(subscriberStorage))
	competitionBot.RegisterCmdView("unsubscribe", bot.ViewCmdUnsubscribe(subscriberStorage))
	competitionBot.RegisterCmdView("latest", bot.ViewCmdLatest(announcementStorage))
	competitionBot.RegisterCmdView(
		"subscribers",
		middleware.AdminOnly(
			config.Get().TelegramAdminChatID,
			bot.ViewCmdSubscribers(subscriberStorage),
		),
	)

	go func(ctx context.Context) {
		if err := pipeline.Start(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("[ERROR] failed to run fetcher: %v", err)
				return
			}

			log.Println("fetcher stopped")
		}
	}(ctx)

	if err := competitionBot.Run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("[ERROR] failed to run bot: %v", err)
			return
		}

		log.Println("bot stopped")
	}
}
