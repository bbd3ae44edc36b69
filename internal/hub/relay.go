package hub

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"presenceHub/internal/enums"
	"presenceHub/internal/models"
	redisModels "presenceHub/internal/models/redis"
	socketModels "presenceHub/internal/models/socket"
)

// Relay carries published messages and presence transitions over a redis
// channel so that every hub instance subscribed to it delivers them to its
// local connections, the publishing instance included.
type Relay struct {
	ctx   context.Context
	redis *redis.Client
}

func NewRelay(ctx context.Context, redis *redis.Client) *Relay {
	return &Relay{
		ctx:   ctx,
		redis: redis,
	}
}

func (r *Relay) Publish(message *models.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.publish(redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
		ConversationID: message.ConversationID,
		Payload:        payload,
	})
}

func (r *Relay) PublishPresence(userID uint, online bool) error {
	status := enums.USER_STATUS_OFFLINE
	if online {
		status = enums.USER_STATUS_ONLINE
	}
	payload, err := json.Marshal(socketModels.UserStatusPayload{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return err
	}
	return r.publish(redisModels.RedisPublishedMessage{
		Event:   enums.SOCKET_EVENT_USER_STATUS,
		Payload: payload,
	})
}

func (r *Relay) publish(envelope redisModels.RedisPublishedMessage) error {
	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return r.redis.Publish(r.ctx, redisModels.REDIS_CHANNEL_CHAT, raw).Err()
}

// Run subscribes to the chat channel and feeds every received envelope into
// the matching deliver callback. It blocks until the subscription channel
// closes.
func (r *Relay) Run(deliverMessage func(*models.Message), deliverPresence func(userID uint, online bool)) {
	ch := r.subscribeToChannel(redisModels.REDIS_CHANNEL_CHAT)
	for msg := range ch {
		var envelope redisModels.RedisPublishedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Error unmarshalling relayed envelope: %v", err)
			continue
		}
		switch envelope.Event {
		case enums.SOCKET_EVENT_NEW_MESSAGE:
			var message models.Message
			if err := json.Unmarshal(envelope.Payload, &message); err != nil {
				log.Printf("Error unmarshalling relayed message: %v", err)
				continue
			}
			deliverMessage(&message)
		case enums.SOCKET_EVENT_USER_STATUS:
			var status socketModels.UserStatusPayload
			if err := json.Unmarshal(envelope.Payload, &status); err != nil {
				log.Printf("Error unmarshalling relayed presence: %v", err)
				continue
			}
			deliverPresence(status.UserID, status.Status == enums.USER_STATUS_ONLINE)
		default:
			log.Printf("Unknown relayed event: %v", envelope.Event)
		}
	}
}

func (r *Relay) subscribeToChannel(channel string) <-chan *redis.Message {
	pubsub := r.redis.Subscribe(r.ctx, channel)
	if _, err := pubsub.Receive(r.ctx); err != nil {
		log.Fatalf("Could not subscribe to channel: %v", err)
	}
	return pubsub.Channel()
}
