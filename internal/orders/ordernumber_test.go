package orders

import (
	"regexp"
	"testing"
	"time"
)

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^LUX-20260829-[0-9A-F]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number := NewOrderNumber(now)
		if !pattern.MatchString(number) {
			t.Fatalf("order number %q does not match expected format", number)
		}
		if seen[number] {
			t.Fatalf("duplicate order number %q after %d draws", number, i)
		}
		seen[number] = true
	}
}
