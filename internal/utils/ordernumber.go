package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber builds a human-facing order identifier from the
// current date plus a 4-digit cryptographic random suffix, e.g.
// ORD202601054821. Collisions are possible; callers insert against a
// unique column and retry with a fresh suffix.
func GenerateOrderNumber() string {
	now := time.Now()

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("ORD%s%04d", now.Format("20060102"), n.Int64())
}
