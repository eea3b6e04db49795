package gateway

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/agrirent/rental-order-service/internal/config"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

const (
	sandboxHost    = "https://openapi-sandbox.dl.alipaydev.com/gateway.do"
	productionHost = "https://openapi.alipay.com/gateway.do"

	signField     = "sign"
	signTypeField = "sign_type"
)

// Adapter generates signed payment redirect URLs and verifies inbound
// callback signatures. It is stateless: a pure function of its inputs and
// the configured merchant credentials. The clock and nonce source are
// injectable so URL generation is deterministic under test.
type Adapter struct {
	merchantID  string
	signType    string
	callbackURL string
	host        string
	privateKey  *rsa.PrivateKey
	publicKey   *rsa.PublicKey

	now   func() time.Time
	nonce func() string
}

func NewAdapter(cfg config.Gateway) (*Adapter, error) {
	privateKey, err := parsePrivateKey(cfg.PrivateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("gateway private key: %w", err)
	}
	publicKey, err := parsePublicKey(cfg.PublicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("gateway public key: %w", err)
	}

	host := sandboxHost
	if cfg.Environment == "production" {
		host = productionHost
	}

	nonceGen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("nonce generator: %w", err)
	}

	return &Adapter{
		merchantID:  cfg.MerchantID,
		signType:    cfg.SignType,
		callbackURL: cfg.CallbackURL,
		host:        host,
		privateKey:  privateKey,
		publicKey:   publicKey,
		now:         time.Now,
		nonce:       nonceGen,
	}, nil
}

// WithClock replaces the timestamp and nonce sources. Tests use this to
// make generated URLs reproducible.
func (a *Adapter) WithClock(now func() time.Time, nonce func() string) *Adapter {
	a.now = now
	a.nonce = nonce
	return a
}

// GeneratePaymentURL builds the provider redirect URL for one order. The
// signature covers the canonical parameter string: keys sorted, empty
// values dropped, k=v pairs joined with '&', signed SHA256-with-RSA and
// base64 encoded.
func (a *Adapter) GeneratePaymentURL(merchantOrderID string, amount decimal.Decimal, subject string) (string, error) {
	params := map[string]string{
		"app_id":       a.merchantID,
		"out_trade_no": merchantOrderID,
		"total_amount": amount.StringFixed(2),
		"subject":      subject,
		"notify_url":   a.callbackURL,
		"timestamp":    a.now().UTC().Format("2006-01-02 15:04:05"),
		"nonce":        a.nonce(),
	}

	// sign_type is carried but, per provider convention, never part of the
	// signed canonical string.
	signature, err := a.sign(canonicalString(params))
	if err != nil {
		return "", fmt.Errorf("signing payment params: %w", err)
	}
	params[signTypeField] = a.signType
	params[signField] = signature

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return a.host + "?" + values.Encode(), nil
}

// VerifySignature checks an inbound callback payload against the gateway
// public key. It fails closed: a missing signature, an algorithm mismatch
// or any verification error all yield false, with no indication of which
// check failed.
func (a *Adapter) VerifySignature(fields map[string]string) bool {
	signature, ok := fields[signField]
	if !ok || signature == "" {
		return false
	}
	if signType, ok := fields[signTypeField]; ok && signType != a.signType {
		return false
	}

	unsigned := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == signField || k == signTypeField {
			continue
		}
		unsigned[k] = v
	}

	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	digest := sha256.Sum256([]byte(canonicalString(unsigned)))
	return rsa.VerifyPKCS1v15(a.publicKey, crypto.SHA256, digest[:], raw) == nil
}

func (a *Adapter) sign(canonical string) (string, error) {
	digest := sha256.Sum256([]byte(canonical))
	raw, err := rsa.SignPKCS1v15(rand.Reader, a.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// canonicalString builds the signing base: keys sorted lexicographically,
// empty values omitted, pairs joined as k=v with '&'.
func canonicalString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA private key")
	}
	return key, nil
}

func parsePublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return key, nil
}
