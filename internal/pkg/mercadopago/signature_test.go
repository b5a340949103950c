package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
)

func sign(secret, dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify(t *testing.T) {
	const (
		secret    = "test-secret"
		dataID    = "123456789"
		requestID = "req-abc-001"
		ts        = "1704908010"
	)
	validHash := sign(secret, dataID, requestID, ts)

	tests := []struct {
		name       string
		xSignature string
		wantErr    bool
	}{
		{
			name:       "valid signature",
			xSignature: fmt.Sprintf("ts=%s,v1=%s", ts, validHash),
			wantErr:    false,
		},
		{
			name:       "valid signature with spaces",
			xSignature: fmt.Sprintf("ts=%s, v1=%s", ts, validHash),
			wantErr:    false,
		},
		{
			name:       "wrong hash",
			xSignature: fmt.Sprintf("ts=%s,v1=deadbeef", ts),
			wantErr:    true,
		},
		{
			name:       "hash signed with other secret",
			xSignature: fmt.Sprintf("ts=%s,v1=%s", ts, sign("other-secret", dataID, requestID, ts)),
			wantErr:    true,
		},
		{
			name:       "tampered timestamp",
			xSignature: fmt.Sprintf("ts=9999999999,v1=%s", validHash),
			wantErr:    true,
		},
		{
			name:       "missing v1",
			xSignature: fmt.Sprintf("ts=%s", ts),
			wantErr:    true,
		},
		{
			name:       "missing ts",
			xSignature: fmt.Sprintf("v1=%s", validHash),
			wantErr:    true,
		},
		{
			name:       "empty header",
			xSignature: "",
			wantErr:    true,
		},
		{
			name:       "garbage header",
			xSignature: "not-a-signature",
			wantErr:    true,
		},
	}

	v := NewSignatureVerifier(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.xSignature, requestID, dataID)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	if NewSignatureVerifier("").Enabled() {
		t.Error("verifier with empty secret should be disabled")
	}
	if !NewSignatureVerifier("s").Enabled() {
		t.Error("verifier with secret should be enabled")
	}
}

func TestParseSignatureHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		wantTs string
		wantV1 string
	}{
		{name: "standard", header: "ts=1704908010,v1=618c85", wantTs: "1704908010", wantV1: "618c85"},
		{name: "reordered", header: "v1=618c85,ts=1704908010", wantTs: "1704908010", wantV1: "618c85"},
		{name: "extra keys ignored", header: "ts=1,v2=x,v1=abc", wantTs: "1", wantV1: "abc"},
		{name: "no pairs", header: "garbage", wantTs: "", wantV1: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, v1 := parseSignatureHeader(tt.header)
			if ts != tt.wantTs || v1 != tt.wantV1 {
				t.Errorf("parseSignatureHeader(%q) = (%q, %q), want (%q, %q)", tt.header, ts, v1, tt.wantTs, tt.wantV1)
			}
		})
	}
}
