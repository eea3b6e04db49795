package gateway

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/url"
	"testing"
	"time"

	"github.com/agrirent/rental-order-service/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) (privatePEM, publicPEM string, key *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM = string(pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	}))
	return privatePEM, publicPEM, key
}

func testAdapter(t *testing.T) (*Adapter, *rsa.PrivateKey) {
	t.Helper()
	privatePEM, publicPEM, key := testKeyPEM(t)
	adapter, err := NewAdapter(config.Gateway{
		Environment:   "sandbox",
		MerchantID:    "merchant-42",
		PrivateKeyPEM: privatePEM,
		PublicKeyPEM:  publicPEM,
		CallbackURL:   "https://rentals.example.com/gateway/callback",
		SignType:      "RSA2",
	})
	require.NoError(t, err)
	return adapter, key
}

// signAs produces a callback signature the way the provider would, with
// the counterparty's private key.
func signAs(t *testing.T, key *rsa.PrivateKey, fields map[string]string) string {
	t.Helper()
	digest := sha256.Sum256([]byte(canonicalString(fields)))
	raw, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestGeneratePaymentURL(t *testing.T) {
	adapter, _ := testAdapter(t)
	adapter.WithClock(
		func() time.Time { return time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC) },
		func() string { return "fixed-nonce" },
	)

	raw, err := adapter.GeneratePaymentURL("ord-123", decimal.NewFromInt(300), "Rental: Tractor")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "openapi-sandbox.dl.alipaydev.com", parsed.Host)

	query := parsed.Query()
	assert.Equal(t, "merchant-42", query.Get("app_id"))
	assert.Equal(t, "ord-123", query.Get("out_trade_no"))
	assert.Equal(t, "300.00", query.Get("total_amount"))
	assert.Equal(t, "2024-06-02 12:00:00", query.Get("timestamp"))
	assert.Equal(t, "fixed-nonce", query.Get("nonce"))
	assert.Equal(t, "RSA2", query.Get("sign_type"))
	assert.NotEmpty(t, query.Get("sign"))

	// Same inputs, same clock, same URL.
	again, err := adapter.GeneratePaymentURL("ord-123", decimal.NewFromInt(300), "Rental: Tractor")
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestGeneratedSignatureVerifies(t *testing.T) {
	adapter, _ := testAdapter(t)
	adapter.WithClock(
		func() time.Time { return time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC) },
		func() string { return "fixed-nonce" },
	)

	raw, err := adapter.GeneratePaymentURL("ord-123", decimal.NewFromInt(300), "Rental: Tractor")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	// The signing key here doubles as the verification counterparty, so
	// the outbound URL params round-trip through VerifySignature.
	fields := map[string]string{}
	for k, vs := range parsed.Query() {
		fields[k] = vs[0]
	}
	assert.True(t, adapter.VerifySignature(fields))
}

func TestVerifySignature(t *testing.T) {
	adapter, key := testAdapter(t)

	fields := func() map[string]string {
		return map[string]string{
			"out_trade_no": "ord-123",
			"trade_status": "TRADE_SUCCESS",
			"total_amount": "300.00",
			"trade_no":     "gw-789",
		}
	}

	t.Run("valid payload passes", func(t *testing.T) {
		payload := fields()
		payload["sign"] = signAs(t, key, fields())
		payload["sign_type"] = "RSA2"
		assert.True(t, adapter.VerifySignature(payload))
	})

	t.Run("any mutated field fails", func(t *testing.T) {
		for mutated := range fields() {
			payload := fields()
			payload["sign"] = signAs(t, key, fields())
			payload[mutated] = payload[mutated] + "x"
			assert.False(t, adapter.VerifySignature(payload), "mutation of %s must break the signature", mutated)
		}
	})

	t.Run("missing signature fails", func(t *testing.T) {
		assert.False(t, adapter.VerifySignature(fields()))
	})

	t.Run("empty signature fails", func(t *testing.T) {
		payload := fields()
		payload["sign"] = ""
		assert.False(t, adapter.VerifySignature(payload))
	})

	t.Run("garbage base64 fails", func(t *testing.T) {
		payload := fields()
		payload["sign"] = "%%%not-base64%%%"
		assert.False(t, adapter.VerifySignature(payload))
	})

	t.Run("wrong sign type fails", func(t *testing.T) {
		payload := fields()
		payload["sign"] = signAs(t, key, fields())
		payload["sign_type"] = "MD5"
		assert.False(t, adapter.VerifySignature(payload))
	})

	t.Run("foreign key fails", func(t *testing.T) {
		stranger, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		payload := fields()
		payload["sign"] = signAs(t, stranger, fields())
		assert.False(t, adapter.VerifySignature(payload))
	})

	t.Run("empty values are dropped from the canonical", func(t *testing.T) {
		signed := fields()
		payload := fields()
		payload["seller_email"] = ""
		payload["sign"] = signAs(t, key, signed)
		assert.True(t, adapter.VerifySignature(payload))
	})
}

func TestCanonicalString(t *testing.T) {
	got := canonicalString(map[string]string{
		"b":     "2",
		"a":     "1",
		"empty": "",
		"c":     "3",
	})
	assert.Equal(t, "a=1&b=2&c=3", got)
}

func TestProductionHost(t *testing.T) {
	privatePEM, publicPEM, _ := testKeyPEM(t)
	adapter, err := NewAdapter(config.Gateway{
		Environment:   "production",
		MerchantID:    "merchant-42",
		PrivateKeyPEM: privatePEM,
		PublicKeyPEM:  publicPEM,
		SignType:      "RSA2",
	})
	require.NoError(t, err)

	raw, err := adapter.GeneratePaymentURL("ord-1", decimal.NewFromInt(1), "subject")
	require.NoError(t, err)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "openapi.alipay.com", parsed.Host)
}

func TestNewAdapterRejectsBadKeys(t *testing.T) {
	_, publicPEM, _ := testKeyPEM(t)
	_, err := NewAdapter(config.Gateway{
		PrivateKeyPEM: "not a key",
		PublicKeyPEM:  publicPEM,
	})
	assert.Error(t, err)

	privatePEM, _, _ := testKeyPEM(t)
	_, err = NewAdapter(config.Gateway{
		PrivateKeyPEM: privatePEM,
		PublicKeyPEM:  "not a key",
	})
	assert.Error(t, err)
}
