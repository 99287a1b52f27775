package email

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendLowCodesWarning(toEmail, resourceName string, remaining int64) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// EmailServiceImpl implements EmailService over plain SMTP
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendLowCodesWarning emails the resource's configured recipient that the
// pool of unassigned license codes is running low. When SMTP credentials are
// not configured the message is logged instead of sent, which keeps
// development setups working without a mail server.
func (s *EmailServiceImpl) SendLowCodesWarning(toEmail, resourceName string, remaining int64) error {
	subject := fmt.Sprintf("Mellyn - Warning: %d unassigned license codes for %s", remaining, resourceName)
	body := fmt.Sprintf("%s has %d unassigned License Codes left! It might be time to add more.",
		resourceName, remaining)

	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resource", resourceName).
			Int64("remaining", remaining).
			Msg("SMTP credentials not configured - low codes warning not sent")
		return nil
	}

	msg := []byte("From: " + s.config.FromName + " <" + s.config.FromEmail + ">\r\n" +
		"To: " + toEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, msg); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send low codes warning email")
		return fmt.Errorf("failed to send low codes warning: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Str("resource", resourceName).Msg("Low codes warning email sent")
	return nil
}
