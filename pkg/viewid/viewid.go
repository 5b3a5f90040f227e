package viewid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix marks every public profile identifier.
const Prefix = "USR"

// MaxAttempts bounds the regeneration loop when a collision is detected.
const MaxAttempts = 5

// ErrExhausted is returned when every generation attempt collided.
var ErrExhausted = fmt.Errorf("view id generation attempts exhausted")

// Generate derives a public view identifier from the order identifier and a
// timestamp: USR-<last 4 hex chars of the order id>-<epoch millis>.
func Generate(orderID uuid.UUID, at time.Time) string {
	hex := strings.ReplaceAll(orderID.String(), "-", "")
	suffix := strings.ToUpper(hex[len(hex)-4:])
	return fmt.Sprintf("%s-%s-%d", Prefix, suffix, at.UnixMilli())
}

// ExistsFunc reports whether a candidate identifier is already taken.
type ExistsFunc func(ctx context.Context, viewID string) (bool, error)

// GenerateUnique produces a view identifier that does not collide with an
// existing one, retrying with a fresh timestamp up to MaxAttempts times.
func GenerateUnique(ctx context.Context, orderID uuid.UUID, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate := Generate(orderID, time.Now().Add(time.Duration(attempt)*time.Millisecond))
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking view id availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
