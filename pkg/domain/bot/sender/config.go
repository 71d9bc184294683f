package sender

import "time"

// ProcessorConfig describes where booking notices go and how hard to try.
type ProcessorConfig struct {
	ChannelID string // @channelusername; empty disables notices
	Attempts  int
	Backoff   time.Duration // base of the exponential backoff between attempts

	// Telegram allows about 20 posts a minute into one channel.
	Interval time.Duration
	Burst    int
}

func NewProcessorConfig(channelID string) ProcessorConfig {
	return ProcessorConfig{
		ChannelID: channelID,
		Attempts:  3,
		Backoff:   time.Second,
		Interval:  3 * time.Second,
		Burst:     5,
	}
}

func (c ProcessorConfig) Enabled() bool {
	return c.ChannelID != ""
}
