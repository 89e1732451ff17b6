// Package events announces lead changes to downstream consumers: a Kafka
// topic for other services and a websocket feed for open dashboards.
package events

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"eduportal/internal/domain"
)

const (
	LeadCreated           = "lead.created"
	LeadUpdated           = "lead.updated"
	LeadDocumentsUploaded = "lead.documents_uploaded"
)

type Event struct {
	Type    string      `json:"type"`
	Key     string      `json:"key"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}

// LeadEvent builds an event keyed by the lead's numeric id, or its
// primary key when it has none.
func LeadEvent(eventType string, lead *domain.Lead, at time.Time) Event {
	key := lead.ID
	if lead.LeadID != 0 {
		key = strconv.FormatInt(lead.LeadID, 10)
	}
	return Event{
		Type:    eventType,
		Key:     key,
		At:      at.UTC(),
		Payload: lead.View(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout delivers each event to every publisher.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type bestEffort struct {
	next Publisher
	log  *zap.Logger
}

// BestEffort logs publish failures instead of returning them.
func BestEffort(next Publisher, log *zap.Logger) Publisher {
	return &bestEffort{next: next, log: log}
}

func (b *bestEffort) Publish(ctx context.Context, ev Event) error {
	if err := b.next.Publish(ctx, ev); err != nil {
		b.log.Warn("publish event failed",
			zap.String("type", ev.Type),
			zap.String("key", ev.Key),
			zap.Error(err))
	}
	return nil
}
