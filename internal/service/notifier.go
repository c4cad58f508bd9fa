package service

import (
	"context"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// MultiNotifier fans an event out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, event entities.Event) {
	for _, n := range m {
		n.Notify(ctx, event)
	}
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, entities.Event) {}
