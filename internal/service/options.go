package service

import (
	"time"

	"go.uber.org/zap"
)

// Options carries the clock and tuning shared by the engine services.
type Options struct {
	Location    *time.Location   // calendar for streak days and time-of-day trophies
	Now         func() time.Time // server clock
	MaxRetries  int              // optimistic update attempts per write
	Parallelism int              // concurrent trophy rule checks
	Logger      *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MaxRetries < 1 {
		o.MaxRetries = 5
	}
	if o.Parallelism < 1 {
		o.Parallelism = 4
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
