package uid

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSessionID returns a random id for an engine session.
func GenerateSessionID() string {
	return uuid.NewString()
}

// GenerateRoomID returns a short random id for a relay room.
func GenerateRoomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// GeneratePeerID identifies one relay connection.
func GeneratePeerID() string {
	return uuid.NewString()
}
