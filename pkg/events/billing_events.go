package events

import "time"

// Billing event codes published on the bus. The notification worker consumes
// these to deliver email and websocket pushes.
const (
	TypePaymentApproved       = "PAYMENT_APPROVED"
	TypePaymentRejected       = "PAYMENT_REJECTED"
	TypeSubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	TypeSubscriptionExpired   = "SUBSCRIPTION_EXPIRED"
	TypeSubscriptionCancelled = "SUBSCRIPTION_CANCELLED"
	TypePlanExpiryWarning     = "PLAN_EXPIRY_WARNING"
)

func NewBillingEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
