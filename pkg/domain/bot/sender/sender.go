package sender

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/napryag/tg_doctors_bot/pkg/utils/errs"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Processor posts booking notices to the clinic channel.
type Processor struct {
	config ProcessorConfig
	logger zerolog.Logger

	bot     botAPI
	limiter *rate.Limiter
}

func New(config ProcessorConfig, logger zerolog.Logger, bot botAPI) *Processor {
	if config.Attempts < 1 {
		config.Attempts = 1
	}
	if config.Burst < 1 {
		config.Burst = 1
	}
	return &Processor{
		config:  config,
		logger:  logger,
		bot:     bot,
		limiter: rate.NewLimiter(rate.Every(config.Interval), config.Burst),
	}
}

func (p *Processor) Send(text string) (int, error) {
	p.logger.Trace().Msg("In")
	defer p.logger.Trace().Msg("Out")

	msgToSend := tgbotapi.NewMessageToChannel(p.config.ChannelID, text)

	var err error
	var msg tgbotapi.Message

	for i := 0; i < p.config.Attempts; i++ {
		if d := p.limiter.Reserve().Delay(); d > 0 {
			p.logger.Debug().Dur("wait", d).Msg("channel rate limit")
			time.Sleep(d)
		}
		msg, err = p.bot.Send(msgToSend)
		if err == nil {
			return msg.MessageID, nil
		}
		p.logger.Warn().Err(err).Int("retry", i+1).Msg("send failed, retrying")

		if i+1 < p.config.Attempts {
			time.Sleep(p.config.Backoff << i)
		}
	}
	p.logger.Error().Err(err).Msg("send permanently failed")

	return 0, errs.New("failed to send message").Arg("channel", p.config.ChannelID).Wrap(err)
}
