package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

// EmailService sends operational alert emails over SMTP.
type EmailService struct{}

func NewEmailService() *EmailService {
	return &EmailService{}
}

// SendHealthAlert notifies the alert recipient that a client dropped into
// critical health. Delivery runs in the background; a failure is logged
// and never surfaces to the scoring run.
func (s *EmailService) SendHealthAlert(clientName string, overallScore float64, riskFactors []string) {
	go func() {
		subject := fmt.Sprintf("Critical health alert: %s", clientName)
		body := fmt.Sprintf("Client %s dropped to a health score of %.1f/100.\n", clientName, overallScore)
		if len(riskFactors) > 0 {
			body += "\nRisk factors:\n- " + strings.Join(riskFactors, "\n- ") + "\n"
		}
		if err := s.send(subject, body); err != nil {
			log.Printf("Failed to send health alert email for %s: %v", clientName, err)
		}
	}()
}

func (s *EmailService) send(subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")
	alertEmail := os.Getenv("ALERT_EMAIL")

	senderEmail := fromEmail
	if senderEmail == "" {
		senderEmail = smtpUser
	}

	if smtpHost == "" || smtpUser == "" || smtpPass == "" || senderEmail == "" {
		return fmt.Errorf("SMTP configuration is incomplete: check SMTP_HOST, SMTP_USER, SMTP_PASS, and FROM_EMAIL")
	}
	if alertEmail == "" {
		return fmt.Errorf("alert recipient not configured: check ALERT_EMAIL")
	}

	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpPort := 2525 // Default port
	if smtpPortStr != "" {
		portNum, err := strconv.Atoi(smtpPortStr)
		if err == nil && portNum > 0 {
			smtpPort = portNum
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", senderEmail)
	m.SetHeader("To", alertEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
