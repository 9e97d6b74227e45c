package email

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	logger       *zap.Logger
}

func NewEmailService(logger *zap.Logger) *EmailService {
	return &EmailService{
		client:       resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:         os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName:     os.Getenv("EMAIL_FROM_NAME"),
		templatesDir: "pkg/email/templates",
		logger:       logger,
	}
}

func (s *EmailService) SendWelcomeEmail(email, fullName string) error {
	templateData := map[string]interface{}{
		"FullName": fullName,
		"Email":    email,
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("welcome.html", templateData)
	if err != nil {
		s.logger.Error("welcome template failed", zap.String("email", email), zap.Error(err))
		return err
	}

	return s.send(email, "Welcome to InkGenius!", html)
}

func (s *EmailService) SendVerificationEmail(email, fullName, token string) error {
	verificationLink := os.Getenv("FRONTEND_URL") + "/verify-email?token=" + token

	templateData := map[string]interface{}{
		"FullName":         fullName,
		"VerificationLink": verificationLink,
		"Email":            email,
		"Year":             time.Now().Year(),
	}

	html, err := s.parseTemplate("verify-email.html", templateData)
	if err != nil {
		s.logger.Error("verification template failed", zap.String("email", email), zap.Error(err))
		return err
	}

	return s.send(email, "Verify Your Email - InkGenius", html)
}

// SendPurchaseReceipt webhook ile doğrulanmış satın alma sonrası makbuz yollar.
func (s *EmailService) SendPurchaseReceipt(email, packageName string, creditsGranted, amountMinor int64, currency string) error {
	templateData := map[string]interface{}{
		"PackageName":    packageName,
		"CreditsGranted": creditsGranted,
		"Amount":         fmt.Sprintf("%.2f %s", float64(amountMinor)/100, currency),
		"Email":          email,
		"Year":           time.Now().Year(),
	}

	html, err := s.parseTemplate("purchase-receipt.html", templateData)
	if err != nil {
		s.logger.Error("receipt template failed", zap.String("email", email), zap.Error(err))
		return err
	}

	return s.send(email, "Your InkGenius Credits Receipt", html)
}

func (s *EmailService) send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("email send failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return err
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject), zap.String("id", resp.Id))
	return nil
}

func (s *EmailService) parseTemplate(templateName string, data interface{}) (string, error) {
	templatePath := filepath.Join(s.templatesDir, templateName)

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}

	return body.String(), nil
}
