package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// ReceiptSender delivers purchase receipts. A disabled instance is a valid
// implementation that drops everything, so checkout never depends on SMTP.
type ReceiptSender interface {
	SendPurchaseReceipt(to, userName, cardName, orderNo, amount string) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// SendPurchaseReceipt emails a receipt for a completed purchase.
func (s *SMTPEmailService) SendPurchaseReceipt(to, userName, cardName, orderNo, amount string) error {
	subject := fmt.Sprintf("Receipt for %s", cardName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Thank you for your purchase, %s!</h2>
			<p>Your payment has been confirmed and the course is now unlocked.</p>
			<p><strong>Course:</strong> %s</p>
			<p><strong>Order:</strong> %s</p>
			<p><strong>Amount:</strong> %s</p>
			<p>You can start watching right away from your course list.</p>
		</body>
		</html>
	`, userName, cardName, orderNo, amount)

	plainBody := fmt.Sprintf(`
Thank you for your purchase, %s!

Your payment has been confirmed and the course is now unlocked.

Course: %s
Order: %s
Amount: %s

You can start watching right away from your course list.
	`, userName, cardName, orderNo, amount)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

// NoopEmailService satisfies ReceiptSender when email delivery is disabled.
type NoopEmailService struct{}

func NewNoopEmailService() *NoopEmailService {
	return &NoopEmailService{}
}

func (s *NoopEmailService) SendPurchaseReceipt(to, userName, cardName, orderNo, amount string) error {
	return nil
}
