package hub

import (
	"presenceHub/internal/enums"
	socketModels "presenceHub/internal/models/socket"
)

// PresenceBroadcaster fans user_status transitions out to connections. It
// holds no state of its own; the Hub hands it a write function and the
// target snapshot.
type PresenceBroadcaster struct {
	write func(*Connection, socketModels.ServerEvent) bool
}

func NewPresenceBroadcaster(write func(*Connection, socketModels.ServerEvent) bool) *PresenceBroadcaster {
	return &PresenceBroadcaster{write: write}
}

func (pb *PresenceBroadcaster) Announce(targets []*Connection, userID uint, online bool) {
	status := enums.USER_STATUS_OFFLINE
	if online {
		status = enums.USER_STATUS_ONLINE
	}
	event := socketModels.ServerEvent{
		Event: enums.SOCKET_EVENT_USER_STATUS,
		Payload: socketModels.UserStatusPayload{
			UserID: userID,
			Status: status,
		},
	}
	for _, conn := range targets {
		pb.write(conn, event)
	}
}
