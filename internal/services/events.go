package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"nextalk-desk/internal/models"
)

const (
	TicketsChannel = "tickets:updated"
	ticketsSeqKey  = "tickets:seq"
)

// EventPublisher fans a ticket mutation out to every connected client.
// Implementations must not fail the calling mutation: real-time delivery
// is best-effort.
type EventPublisher interface {
	PublishTicket(ctx context.Context, event string, ticket *models.Ticket)
	PublishTicketID(ctx context.Context, event string, ticketID string)
}

// RedisPublisher assigns each envelope a sequence number from a Redis
// counter before publishing, so subscribers can detect gaps and replay.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) PublishTicket(ctx context.Context, event string, ticket *models.Ticket) {
	p.publish(ctx, models.TicketEvent{Event: event, Ticket: ticket})
}

func (p *RedisPublisher) PublishTicketID(ctx context.Context, event string, ticketID string) {
	p.publish(ctx, models.TicketEvent{Event: event, TicketID: ticketID})
}

func (p *RedisPublisher) publish(ctx context.Context, evt models.TicketEvent) {
	if p.rdb == nil {
		return
	}

	seq, err := p.rdb.Incr(ctx, ticketsSeqKey).Result()
	if err != nil {
		log.Printf("Failed to allocate event sequence: %v", err)
		return
	}
	evt.Seq = seq
	evt.Timestamp = time.Now().UnixMilli()

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Failed to marshal ticket event: %v", err)
		return
	}
	if err := p.rdb.Publish(ctx, TicketsChannel, data).Err(); err != nil {
		log.Printf("Failed to publish ticket event: %v", err)
	}
}

// NoopPublisher is used when Redis is unavailable: the API keeps working
// without real-time fan-out.
type NoopPublisher struct{}

func (NoopPublisher) PublishTicket(context.Context, string, *models.Ticket) {}
func (NoopPublisher) PublishTicketID(context.Context, string, string) {}
