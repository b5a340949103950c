// FILE: internal/dto/webhook_dto.go
package dto

// WebhookNotification is the body Mercado Pago posts to our webhook endpoint.
// Only the fields we dispatch on are decoded.
type WebhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// WebhookHeaders carries the pieces of the request needed for signature
// verification, extracted before the body is parsed.
type WebhookHeaders struct {
	XSignature string
	XRequestID string
	DataID     string
}

type WebhookAck struct {
	Received bool `json:"received"`
}
