package service

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20250901-[0-9ABCDEFGHJKMNPQRSTVWXYZ]{6}$`)

	for i := 0; i < 100; i++ {
		number := generateOrderNumber(now)
		if !pattern.MatchString(number) {
			t.Fatalf("order number %q does not match expected format", number)
		}
	}
}
