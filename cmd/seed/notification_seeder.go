package main

import (
	"log"

	"escribanos-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
// The delivery worker resolves event codes against this table, so every code
// published on the bus needs a row here.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		// --- Inbox types written by the billing reconciler and the sweep ---
		{
			Code:        "PAGO_EXITOSO",
			DisplayName: "Pago acreditado",
			Template:    "Registramos tu pago de ${monto} ARS. Tu suscripción sigue activa.",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "PAGO_PROBLEMA",
			DisplayName: "Problema con tu pago",
			Template:    "No pudimos procesar tu pago de ${monto} ARS. Revisá tu medio de pago.",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "PLAN_POR_VENCER",
			DisplayName: "Tu plan vence pronto",
			Template:    "Tu suscripción vence el {fecha_fin}. Renovala para seguir en el directorio.",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "SUSCRIPCION_FINALIZADA",
			DisplayName: "Suscripción finalizada",
			Template:    "Tu suscripción fue cancelada. Tu perfil ya no aparece en el directorio.",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},

		// --- Event codes consumed by the delivery worker ---
		{
			Code:        "PAYMENT_APPROVED",
			DisplayName: "Pago acreditado",
			Template:    "Recibimos tu pago. ¡Gracias!",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "PAYMENT_REJECTED",
			DisplayName: "Pago rechazado",
			Template:    "Tu pago fue rechazado. Revisá tu medio de pago para mantener tu perfil visible.",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "SUBSCRIPTION_ACTIVATED",
			DisplayName: "Suscripción activa",
			Template:    "Tu suscripción está activa. Tu perfil ya aparece en el directorio.",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "SUBSCRIPTION_EXPIRED",
			DisplayName: "Suscripción vencida",
			Template:    "Tu suscripción venció. Renovala para volver al directorio.",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "SUBSCRIPTION_CANCELLED",
			DisplayName: "Suscripción cancelada",
			Template:    "Tu suscripción fue cancelada.",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "PLAN_EXPIRY_WARNING",
			DisplayName: "Tu plan vence pronto",
			Template:    "Tu suscripción vence en los próximos días. Renovala para seguir apareciendo.",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
	}

	for _, t := range types {
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
