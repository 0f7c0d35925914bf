package orders

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

const orderNumberPrefix = "LUX"

// NewOrderNumber builds a human-readable order reference like
// LUX-20260829-4F7A21. Uniqueness is enforced by the DB constraint; the
// random suffix makes collisions within a day vanishingly rare.
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand is the kernel; fall back to the clock if it ever fails
		return orderNumberPrefix + "-" + now.UTC().Format("20060102-150405")
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return orderNumberPrefix + "-" + now.UTC().Format("20060102") + "-" + suffix
}
