package production

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	// UIDLength is the fixed length of a produced-item identifier
	UIDLength = 10
	// UIDAlphabet excludes nothing: all uppercase letters and digits.
	UIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// UIDMaxInsertAttempts bounds retries on unique-constraint collisions
	// before the commit gives up with an identifier-exhausted error.
	UIDMaxInsertAttempts = 5
)

// GenerateUID returns a random 10-character identifier drawn from uppercase
// letters and digits using crypto/rand. Uniqueness is enforced by the
// database unique index, not here; callers retry on collision.
func GenerateUID() (string, error) {
	buf := make([]byte, UIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate uid: %w", err)
	}
	var sb strings.Builder
	sb.Grow(UIDLength)
	for _, b := range buf {
		sb.WriteByte(UIDAlphabet[int(b)%len(UIDAlphabet)])
	}
	return sb.String(), nil
}

// QRCodeURL builds the public verification URL printed on each label
func QRCodeURL(baseURL, uid string) string {
	return strings.TrimSuffix(baseURL, "/") + "/p/" + uid
}
