package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// sha512 of "ORDER-1" + "200" + "150000" + "testkey"
const knownSignature = "e6a00f1cb296964bdc7223736101ed0779dfcae17b9c2997952005081a948bbea52c938594d37a093122d0b7a5969a24dfd8aa5d58eeceb039a549fed26011c1"

func TestVerifySignature(t *testing.T) {
	assert.True(t, VerifySignature("ORDER-1", "200", "150000", "testkey", knownSignature))
}

func TestVerifySignatureRejectsMutations(t *testing.T) {
	tests := []struct {
		name        string
		orderID     string
		statusCode  string
		grossAmount string
		serverKey   string
	}{
		{"order id changed", "ORDER-2", "200", "150000", "testkey"},
		{"status code changed", "ORDER-1", "201", "150000", "testkey"},
		{"gross amount changed", "ORDER-1", "200", "150001", "testkey"},
		{"server key changed", "ORDER-1", "200", "150000", "testkex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifySignature(tt.orderID, tt.statusCode, tt.grossAmount, tt.serverKey, knownSignature))
		})
	}
}

func TestVerifySignatureRejectsTamperedSignature(t *testing.T) {
	// Flip one hex character of the valid signature.
	tampered := "f" + knownSignature[1:]
	assert.False(t, VerifySignature("ORDER-1", "200", "150000", "testkey", tampered))

	assert.False(t, VerifySignature("ORDER-1", "200", "150000", "testkey", ""))
	assert.False(t, VerifySignature("ORDER-1", "200", "150000", "testkey", knownSignature[:64]))
}
