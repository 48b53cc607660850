package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/services"
)

// SubscribeToRedis bridges the Redis ticket channel into the hub until the
// context is cancelled. Run it in its own goroutine.
func SubscribeToRedis(ctx context.Context, rdb *redis.Client, hub *Hub) {
	pubsub := rdb.Subscribe(ctx, services.TicketsChannel)
	defer pubsub.Close()

	log.Println("Subscribed to Redis channel:", services.TicketsChannel)

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt models.TicketEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("Invalid ticket event payload: %v", err)
				continue
			}
			hub.Broadcast(evt)
		case <-ctx.Done():
			log.Println("Stopping Redis subscriber...")
			return
		}
	}
}
