// FILE: internal/pkg/mercadopago/signature.go
package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureVerifier checks the x-signature header Mercado Pago attaches to
// webhook deliveries. The header carries a timestamp and an HMAC-SHA256 digest
// over the manifest "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
type SignatureVerifier struct {
	secret string
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: secret}
}

// Enabled reports whether a secret is configured. When disabled, callers
// accept deliveries unsigned (local development only).
func (v *SignatureVerifier) Enabled() bool {
	return v.secret != ""
}

func (v *SignatureVerifier) Verify(xSignature, xRequestID, dataID string) error {
	if xSignature == "" {
		return fmt.Errorf("missing x-signature header")
	}

	ts, hash := parseSignatureHeader(xSignature)
	if ts == "" || hash == "" {
		return fmt.Errorf("malformed x-signature header")
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, xRequestID, ts)

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// parseSignatureHeader splits "ts=1704908010,v1=618c85..." into its parts.
func parseSignatureHeader(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	return ts, v1
}
