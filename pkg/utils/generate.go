package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// GenerateLinkToken returns 32 random bytes hex encoded, used for share and booking links.
func GenerateLinkToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ==================== CLOCK ====================

// Clock returns the current time. Services take one so expiry can be tested.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

// ==================== PARSING ====================

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}
