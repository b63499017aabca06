package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureHeader is the HTTP header carrying the webhook signature.
const SignatureHeader = "Paddle-Signature"

// VerifierConfig holds the shared secrets for webhook authentication.
// PreviousSecret keeps webhooks verifiable during secret rotation.
type VerifierConfig struct {
	Secret         string `env:"PAYMENT_WEBHOOK_SECRET,required"`
	PreviousSecret string `env:"PAYMENT_WEBHOOK_SECRET_PREVIOUS"`
}

// Verifier authenticates inbound webhook notifications and decodes them into
// typed events. Signatures are computed over the exact bytes received; the
// body must never be re-serialized before verification.
type Verifier struct {
	secrets []string
}

// NewVerifier creates a Verifier from config. The current secret is required;
// the previous secret, when set, is tried as a fallback so rotation does not
// drop in-flight deliveries.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	secrets := []string{cfg.Secret}
	if cfg.PreviousSecret != "" {
		secrets = append(secrets, cfg.PreviousSecret)
	}
	return &Verifier{secrets: secrets}, nil
}

// Verify checks the signature header against the raw body.
// Header format: "ts=<unix>;h1=<hex hmac-sha256>", signature computed over
// "<ts>:<body>". Returns ErrAuthentication for absent, malformed, or
// unmatched signatures.
func (v *Verifier) Verify(body []byte, header string) error {
	ts, sig, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	payload := make([]byte, 0, len(ts)+1+len(body))
	payload = append(payload, ts...)
	payload = append(payload, ':')
	payload = append(payload, body...)

	for _, secret := range v.secrets {
		h := hmac.New(sha256.New, []byte(secret))
		h.Write(payload)
		expected := hex.EncodeToString(h.Sum(nil))
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("%w: signature does not match any configured secret", ErrAuthentication)
}

// Parse verifies the signature and decodes the body into a typed Event.
// It has no side effects and never touches the data store.
func (v *Verifier) Parse(body []byte, header string) (*Event, error) {
	if err := v.Verify(body, header); err != nil {
		return nil, err
	}
	return decodeEvent(body)
}

func parseSignatureHeader(header string) (ts, sig string, err error) {
	if header == "" {
		return "", "", fmt.Errorf("%w: missing signature header", ErrAuthentication)
	}
	for _, part := range strings.Split(header, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return "", "", fmt.Errorf("%w: malformed signature header", ErrAuthentication)
		}
		switch key {
		case "ts":
			ts = value
		case "h1":
			sig = value
		}
	}
	if ts == "" || sig == "" {
		return "", "", fmt.Errorf("%w: malformed signature header", ErrAuthentication)
	}
	return ts, sig, nil
}
