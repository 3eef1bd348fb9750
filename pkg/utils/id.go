package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var (
	// Counter for fallback IDs
	idCounter uint64
)

// GenerateRunID generates a run ID with a policy and timestamp prefix,
// e.g. "greedy-20260101-120000-9f1c2a3b".
func GenerateRunID(prefix string) string {
	if prefix == "" {
		prefix = "run"
	}
	timestamp := time.Now().Format("20060102-150405")
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		count := atomic.AddUint64(&idCounter, 1)
		return fmt.Sprintf("%s-%s-%x", prefix, timestamp, count)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, timestamp, hex.EncodeToString(b))
}
