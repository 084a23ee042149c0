package chat

import "errors"

// Sentinel errors shared by the WebSocket and REST transports. Handlers map
// them to status codes / error events with CodeFor; business rules never
// diverge between the two paths.
var (
	// ErrNotFound reports an unknown conversation or message id.
	ErrNotFound = errors.New("chat: not found")
	// ErrNotParticipant reports acting on a conversation one is not a
	// member of.
	ErrNotParticipant = errors.New("chat: user is not a participant")
	// ErrValidation reports a malformed request, e.g. the wrong participant
	// count for a PRIVATE conversation or an unknown message type.
	ErrValidation = errors.New("chat: invalid request")
	// ErrPersistence reports a store failure; the whole operation was
	// aborted.
	ErrPersistence = errors.New("chat: persistence failure")
)

// CodeFor returns the wire-level error code for err.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "invalid_request"
	case errors.Is(err, ErrNotParticipant):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}
