package entity

import (
	"testing"
)

func TestParseWebhookEventKind(t *testing.T) {
	tests := []struct {
		raw  string
		want WebhookEventKind
	}{
		{"payment", WebhookEventPayment},
		{"subscription_preapproval", WebhookEventPreapproval},
		{"subscription_authorized_payment", WebhookEventAuthorizedPayment},
		{"plan", WebhookEventUnknown},
		{"test", WebhookEventUnknown},
		{"", WebhookEventUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseWebhookEventKind(tt.raw); got != tt.want {
				t.Errorf("ParseWebhookEventKind(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
