// FILE: internal/entity/webhook_entity.go
package entity

// WebhookEventKind is the closed set of Mercado Pago event types the
// dispatcher understands. Anything else parses to WebhookEventUnknown,
// which is logged and ignored rather than treated as an error.
type WebhookEventKind string

const (
	WebhookEventPayment           WebhookEventKind = "payment"
	WebhookEventPreapproval       WebhookEventKind = "subscription_preapproval"
	WebhookEventAuthorizedPayment WebhookEventKind = "subscription_authorized_payment"
	WebhookEventUnknown           WebhookEventKind = "unknown"
)

func ParseWebhookEventKind(raw string) WebhookEventKind {
	switch raw {
	case "payment":
		return WebhookEventPayment
	case "subscription_preapproval":
		return WebhookEventPreapproval
	case "subscription_authorized_payment":
		return WebhookEventAuthorizedPayment
	default:
		return WebhookEventUnknown
	}
}
