package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// VerifySignature authenticates an inbound payment notification. The gateway
// signs each notification with hex(sha512(orderID + statusCode + grossAmount
// + serverKey)); anything that doesn't match byte for byte is rejected.
// Comparison is constant time.
func VerifySignature(orderID, statusCode, grossAmount, serverKey, provided string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
