package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEscalationNotice(toEmail, sessionId, question, category string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendEscalationNotice(toEmail, sessionId, question, category string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Chat escalation: %s", category))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A conversation needs a human</h2>
			<p>The assistant could not answer confidently and handed off to support.</p>
			<p><strong>Session:</strong> %s</p>
			<p><strong>Category:</strong> %s</p>
			<p><strong>Question:</strong></p>
			<blockquote style="border-left: 3px solid #007BFF; padding-left: 10px;">%s</blockquote>
			<p>Please follow up with the customer as soon as possible.</p>
		</div>
	`, sessionId, category, question)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send escalation notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Escalation notice sent to %s\n", toEmail)
	return nil
}
