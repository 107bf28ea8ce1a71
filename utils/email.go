package utils

import (
	"fmt"
	"net/smtp"

	"github.com/sisrafilss/local-guide-server/config"
)

// SendEmail delivers a plain-text message through the configured SMTP relay.
func SendEmail(cfg config.SMTPConfig, to, subject, body string) error {
	headers := map[string]string{
		"From":         cfg.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	return smtp.SendMail(addr, auth, cfg.From, []string{to}, []byte(message))
}
