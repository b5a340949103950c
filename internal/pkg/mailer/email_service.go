// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendVerificationEmail(toEmail, token string) error
	SendPaymentReceipt(toEmail string, monto float64, fechaPago time.Time) error
	SendPaymentProblem(toEmail string, monto float64) error
	SendPlanExpiryWarning(toEmail string, fechaFin time.Time) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail, frontendURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", subject, toEmail)
	return nil
}

func (s *emailService) SendVerificationEmail(toEmail, token string) error {
	verifyLink := fmt.Sprintf("%s/verificar-email?token=%s", s.frontendURL, token)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>¡Bienvenido!</h2>
			<p>Hacé clic en el botón para verificar tu dirección de correo:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Verificar email</a>
			<p>O copiá este enlace:</p>
			<p>%s</p>
			<p>Si no creaste una cuenta, ignorá este mensaje.</p>
		</div>
	`, verifyLink, verifyLink)

	return s.send(toEmail, "Verificá tu cuenta", body)
}

func (s *emailService) SendPaymentReceipt(toEmail string, monto float64, fechaPago time.Time) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Pago recibido</h2>
			<p>Registramos tu pago de <strong>$%.2f ARS</strong> el %s.</p>
			<p>Tu suscripción sigue activa. ¡Gracias!</p>
		</div>
	`, monto, fechaPago.Format("02/01/2006"))

	return s.send(toEmail, "Recibimos tu pago", body)
}

func (s *emailService) SendPaymentProblem(toEmail string, monto float64) error {
	payLink := fmt.Sprintf("%s/mi-cuenta/suscripcion", s.frontendURL)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Problema con tu pago</h2>
			<p>No pudimos procesar tu pago de <strong>$%.2f ARS</strong>.</p>
			<p>Revisá tu medio de pago para mantener tu perfil visible:</p>
			<a href="%s" style="background-color: #DC3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Revisar suscripción</a>
		</div>
	`, monto, payLink)

	return s.send(toEmail, "Problema con tu pago", body)
}

func (s *emailService) SendPlanExpiryWarning(toEmail string, fechaFin time.Time) error {
	renewLink := fmt.Sprintf("%s/mi-cuenta/suscripcion", s.frontendURL)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Tu plan vence pronto</h2>
			<p>Tu suscripción vence el <strong>%s</strong>.</p>
			<p>Renovala para que tu perfil siga apareciendo en el directorio:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Renovar plan</a>
		</div>
	`, fechaFin.Format("02/01/2006"), renewLink)

	return s.send(toEmail, "Tu plan vence pronto", body)
}
