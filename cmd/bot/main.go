package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/napryag/tg_doctors_bot/pkg/domain/booking"
	"github.com/napryag/tg_doctors_bot/pkg/domain/bot/receiver"
	"github.com/napryag/tg_doctors_bot/pkg/domain/bot/receiver/config"
	"github.com/napryag/tg_doctors_bot/pkg/domain/bot/sender"
	"github.com/napryag/tg_doctors_bot/pkg/domain/session"
	"github.com/napryag/tg_doctors_bot/pkg/repository/catalog"
	"github.com/napryag/tg_doctors_bot/pkg/repository/model"
	"github.com/napryag/tg_doctors_bot/pkg/repository/store"
	"github.com/napryag/tg_doctors_bot/pkg/utils/errs"
	"github.com/rs/zerolog"
)

func main() {

	// 1) Logger
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	// 2) Config
	cfg, err := config.LoadConfig(config.DefaultPath)
	if err != nil {
		logger.Err(errs.New("failed to load config").Wrap(err)).Msg("config init")
		return
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	// Context cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3) Doctor catalog
	doctors, err := loadDoctors(ctx, cfg, logger)
	if err != nil {
		logger.Err(err).Msg("catalog init")
		return
	}
	logger.Info().Int("doctors", len(doctors)).Msg("catalog loaded")

	// 4) Telegram
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("create bot api")
		return
	}
	bot.Debug = false
	logger.Info().Str("bot", bot.Self.UserName).Msg("authorized")

	var notifier receiver.Notifier
	if pc := sender.NewProcessorConfig(cfg.ChannelID); pc.Enabled() {
		notifier = sender.New(pc, logger.With().Str("component", "sender").Logger(), bot)
	}

	submitter := booking.NewSubmitter(cfg.SubmitDelay, logger.With().Str("component", "submitter").Logger())
	handler := receiver.NewHandler(session.NewStore(doctors, time.Now), submitter, notifier, logger, cfg.DateWindowDays)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 10
	updates := bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down bot")
		// stops long polling; updates is closed and the loop below ends
		bot.StopReceivingUpdates()
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				logger.Info().Msg("bot stopped")
				return
			}
			handleUpdate(ctx, bot, handler, logger, update)

		case c := <-submitter.Done():
			sess, reply := handler.Complete(c)
			show(bot, logger, sess, reply)
		}
	}
}

func loadDoctors(ctx context.Context, cfg *config.Config, logger zerolog.Logger) ([]model.Doctor, error) {
	var src model.CatalogSource

	switch {
	case cfg.PostgreAddr != "":
		repo, err := store.NewRepo(ctx, cfg.PostgreAddr)
		if err != nil {
			return nil, errs.New("failed to connect catalog db").Wrap(err)
		}
		defer repo.Close()
		src = repo
		logger.Debug().Msg("catalog from postgres")

	case cfg.CatalogPath != "":
		doctors, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		src = catalog.NewSource(doctors)
		logger.Debug().Str("path", cfg.CatalogPath).Msg("catalog from file")

	default:
		doctors, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		src = catalog.NewSource(doctors)
	}

	return src.ListDoctors(ctx)
}

func handleUpdate(ctx context.Context, bot *tgbotapi.BotAPI, h *receiver.Handler, logger zerolog.Logger, update tgbotapi.Update) {
	if m := update.Message; m != nil {
		sess := h.Session(m.Chat.ID)

		if m.IsCommand() && m.Command() == "start" {
			if _, err := bot.Request(tgbotapi.NewDeleteMessage(m.Chat.ID, m.MessageID)); err != nil {
				logger.Warn().Err(err).Msg("delete /start failed")
			}
			reply := h.Start(m.Chat.ID)
			sent, err := bot.Send(reply.Message(m.Chat.ID))
			if err != nil {
				logger.Error().Err(err).Int64("chat", m.Chat.ID).Msg("send start screen")
				return
			}
			sess.MessageID = sent.MessageID
			return
		}

		// the text goes into the session; the message itself is removed to keep one screen
		_, _ = bot.Request(tgbotapi.NewDeleteMessage(m.Chat.ID, m.MessageID))
		reply := h.Text(m.Chat.ID, m.Text)
		show(bot, logger, sess, reply)
		if reply.Notice != "" {
			remind(bot, m.Chat.ID, reply.Notice)
		}
		return
	}

	// Inline buttons
	if cq := update.CallbackQuery; cq != nil && cq.Message != nil {
		chatID := cq.Message.Chat.ID
		reply := h.Callback(ctx, chatID, cq.Data)

		sess := h.Session(chatID)
		sess.MessageID = cq.Message.MessageID
		show(bot, logger, sess, reply)

		// stop the client spinner
		_, _ = bot.Request(tgbotapi.NewCallback(cq.ID, reply.Notice))
	}
}

// show edits the session's screen in place, or sends a new one when there is none.
func show(bot *tgbotapi.BotAPI, logger zerolog.Logger, sess *session.Session, reply receiver.Reply) {
	if sess.MessageID != 0 {
		_, err := bot.Send(reply.Edit(sess.ChatID, sess.MessageID))
		if err == nil || isNotModified(err) {
			return
		}
		logger.Warn().Err(err).Int64("chat", sess.ChatID).Msg("edit screen failed, sending new")
	}
	sent, err := bot.Send(reply.Message(sess.ChatID))
	if err != nil {
		logger.Error().Err(err).Int64("chat", sess.ChatID).Msg("send screen")
		return
	}
	sess.MessageID = sent.MessageID
}

// remind posts a short notice that removes itself.
func remind(bot *tgbotapi.BotAPI, chatID int64, text string) {
	sent, err := bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return
	}
	go func(mid int) {
		time.Sleep(5 * time.Second)
		_, _ = bot.Request(tgbotapi.NewDeleteMessage(chatID, mid))
	}(sent.MessageID)
}

func isNotModified(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && strings.Contains(tgErr.Message, "message is not modified")
}
