package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnauthorized          = Error("unauthorized")
	ErrInvalidToken          = Error("invalid token")
	ErrMalformedEvent        = Error("malformed event payload")
	ErrTargetUnreachable     = Error("target has no open connections")
	ErrInvalidConversationId = Error("invalid conversation id")
	ErrNotConversationMember = Error("user is not a member of the conversation")
	ErrEmptyMessageContent   = Error("message content is empty")
)
