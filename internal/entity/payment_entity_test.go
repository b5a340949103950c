package entity

import (
	"testing"
)

func TestMapGatewayPaymentStatus(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		want    PaymentStatus
	}{
		{name: "approved", gateway: "approved", want: PaymentStatusApproved},
		{name: "rejected", gateway: "rejected", want: PaymentStatusRejected},
		{name: "cancelled", gateway: "cancelled", want: PaymentStatusCancelled},
		{name: "refunded", gateway: "refunded", want: PaymentStatusRefunded},
		{name: "charged back maps to refunded", gateway: "charged_back", want: PaymentStatusRefunded},
		{name: "in process maps to pending", gateway: "in_process", want: PaymentStatusPending},
		{name: "unknown maps to pending", gateway: "something_new", want: PaymentStatusPending},
		{name: "empty maps to pending", gateway: "", want: PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapGatewayPaymentStatus(tt.gateway); got != tt.want {
				t.Errorf("MapGatewayPaymentStatus(%q) = %q, want %q", tt.gateway, got, tt.want)
			}
		})
	}
}

func TestSubscriptionStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status SubscriptionStatus
		want   bool
	}{
		{SubscriptionStatusPending, false},
		{SubscriptionStatusActive, false},
		{SubscriptionStatusPastDue, false},
		{SubscriptionStatusExpired, true},
		{SubscriptionStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("%q.IsTerminal() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
