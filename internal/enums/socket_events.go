package enums

// Inbound socket events. The hyphenated call signaling names are part of the
// public wire contract and must not be normalized.
const (
	SOCKET_EVENT_JOIN_CONVERSATION  = "join_conversation"
	SOCKET_EVENT_LEAVE_CONVERSATION = "leave_conversation"
	SOCKET_EVENT_TYPING             = "typing"
	SOCKET_EVENT_STOP_TYPING        = "stop_typing"
	SOCKET_EVENT_SEND_MESSAGE       = "send_message"
	SOCKET_EVENT_CALL_USER          = "call-user"
	SOCKET_EVENT_ANSWER_CALL        = "answer-call"
	SOCKET_EVENT_ICE_CANDIDATE      = "ice-candidate"
)

// Outbound socket events.
const (
	SOCKET_EVENT_USER_STATUS          = "user_status"
	SOCKET_EVENT_INITIAL_ONLINE_USERS = "initial_online_users"
	SOCKET_EVENT_USER_TYPING          = "user_typing"
	SOCKET_EVENT_INCOMING_CALL        = "incoming-call"
	SOCKET_EVENT_CALL_ANSWERED        = "call-answered"
	SOCKET_EVENT_NEW_MESSAGE          = "new_message"
	SOCKET_EVENT_CONVERSATION_UPDATED = "conversation_updated"
)

const (
	USER_STATUS_ONLINE  = "online"
	USER_STATUS_OFFLINE = "offline"
)
