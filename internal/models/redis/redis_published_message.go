package redis

import "encoding/json"

const REDIS_CHANNEL_CHAT = "chat"

// RedisPublishedMessage is the envelope relayed between hub instances over
// the redis pub/sub channel.
type RedisPublishedMessage struct {
	Event          string          `json:"event"`
	ConversationID uint            `json:"conversation_id"`
	Payload        json.RawMessage `json:"payload"`
}
