package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"shopapi/internal/model"

	"gorm.io/gorm"
)

const orderNumberAttempts = 5

var orderNumberAlphabet = []byte("0123456789ABCDEFGHJKMNPQRSTVWXYZ")

// generateOrderNumber builds a human-readable order number with a date prefix
// and a random disambiguating suffix, e.g. ORD-20250901-7K3QWX.
func generateOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			panic(err)
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// allocateOrderNumber generates an order number that does not collide with
// any existing order. The store's unique index on order_number backstops the
// check for concurrent creations.
func allocateOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := generateOrderNumber(now)

		var count int64
		if err := tx.Model(&model.Order{}).Where("order_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number after %d attempts", orderNumberAttempts)
}
