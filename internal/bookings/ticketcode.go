package bookings

import (
	"crypto/rand"
	"fmt"
)

// ticketCodeAlphabet omits 0/O and 1/I so codes survive being read aloud at
// the door.
const (
	ticketCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	ticketCodeLength   = 8
)

// GenerateTicketCode returns a random 8-character door code. Uniqueness is
// enforced by the database index; callers retry on collision.
func GenerateTicketCode() (string, error) {
	buf := make([]byte, ticketCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate ticket code: %w", err)
	}
	for i, b := range buf {
		buf[i] = ticketCodeAlphabet[int(b)%len(ticketCodeAlphabet)]
	}
	return string(buf), nil
}
