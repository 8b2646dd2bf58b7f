package mailer

import (
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"campusevents/internal/campus"
)

// Config holds SMTP settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends plain-text notification mail over SMTP.
type Mailer struct {
	cfg  Config
	log  zerolog.Logger
	send sendFunc
}

func New(cfg Config, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log.With().Str("component", "mailer").Logger(), send: smtp.SendMail}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// SendRegistrationConfirmation mails the student a confirmation for n. It
// logs and returns nil when mail is disabled.
func (m *Mailer) SendRegistrationConfirmation(n campus.RegistrationNotice) error {
	if n.StudentEmail == "" {
		return fmt.Errorf("registration %s: no recipient", n.RegistrationID)
	}
	subject, body := registrationConfirmation(n)
	if !m.Enabled() {
		m.log.Debug().Str("to", n.StudentEmail).Str("subject", subject).Msg("smtp disabled, mail skipped")
		return nil
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	msg := compose(m.cfg.From, n.StudentEmail, subject, body)
	if err := m.send(addr, auth, m.cfg.From, []string{n.StudentEmail}, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	m.log.Info().Str("to", n.StudentEmail).Str("registration_id", n.RegistrationID).Msg("confirmation sent")
	return nil
}

func registrationConfirmation(n campus.RegistrationNotice) (subject, body string) {
	subject = "Registration confirmed: " + n.EventTitle

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", n.StudentName)
	fmt.Fprintf(&b, "You are registered for %s on %s", n.EventTitle, n.EventDate)
	if n.EventLocation != "" {
		fmt.Fprintf(&b, " at %s", n.EventLocation)
	}
	b.WriteString(".\n")
	if n.PaymentStatus == campus.PaymentPaid {
		fmt.Fprintf(&b, "Payment received: %d.\n", n.PaymentAmount)
	}
	fmt.Fprintf(&b, "\nYour registration id is %s. Show your ticket QR code at the entrance.\n", n.RegistrationID)
	return subject, b.String()
}

var stripNewlines = strings.NewReplacer("\r", "", "\n", "")

// compose builds the message. Header values come from user input, so line
// breaks are removed and the subject is RFC 2047 encoded when not plain ASCII.
func compose(from, to, subject, body string) []byte {
	subject = mime.QEncoding.Encode("utf-8", stripNewlines.Replace(subject))
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		stripNewlines.Replace(from), stripNewlines.Replace(to), subject, body))
}
