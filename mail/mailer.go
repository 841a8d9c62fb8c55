// Package mail sends notification mail through a Gmail-style SMTP relay.
package mail

import (
	"fmt"
	"net/smtp"
)

type Mailer struct {
	Host     string
	Port     string
	From     string
	Password string // app password for the relay account
}

func New(host, port, from, password string) *Mailer {
	return &Mailer{Host: host, Port: port, From: from, Password: password}
}

// Enabled reports whether the relay is configured. Callers skip sending (and
// just log) when it is not; mail is never load-bearing.
func (m *Mailer) Enabled() bool { return m.From != "" && m.Password != "" }

func (m *Mailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s\r\n", to, subject, body))
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, msg)
}
