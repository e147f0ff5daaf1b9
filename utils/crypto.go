package utils

import (
	"crypto/rand"
	"math/big"
)

func GenerateRandomString(length int) string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// NewInvoiceNumber generates a display reference for a payment submission.
// It is attached to the intent as metadata and used only as a lookup key
// against the provider; uniqueness is not guaranteed.
func NewInvoiceNumber() string {
	const charset = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	result := make([]byte, 8)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return "INV-" + string(result)
}
