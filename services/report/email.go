package report

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

func (c SmtpConfig) complete() bool {
	return c.Server != "" && c.Port != 0 && c.EmailAddress != ""
}

// SendEmail mails the plain-text report to every recipient. Servers
// that reject AUTH are retried without it.
func SendEmail(cfg SmtpConfig, recipients []string, subject, bodyText string) error {
	if !cfg.complete() {
		return errors.New("smtp config incomplete: require server, port, email_address")
	}
	if len(recipients) == 0 {
		return errors.New("no recipients")
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Key Races <%s>", cfg.EmailAddress)
	mail.To = recipients
	mail.Subject = subject
	mail.Text = []byte(bodyText)

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.EmailAddress, cfg.Password, cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		return mail.Send(addr, nil)
	}
	return err
}
