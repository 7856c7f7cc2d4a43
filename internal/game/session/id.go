package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// IDLength is the length of a session token.
const IDLength = 32

// ErrInvalidID is returned for tokens that are not 32 ASCII letters or digits.
var ErrInvalidID = errors.New("invalid session id")

// NewID returns a fresh random session token.
//
// Postcondition: ValidID(NewID()) is true.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidID reports whether id is a well-formed session token.
func ValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
