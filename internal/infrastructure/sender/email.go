package sender

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// SMTPEmailSender delivers through a plain SMTP relay.
type SMTPEmailSender struct {
	addr string
	from string
}

func NewSMTPEmailSender(host, port, from string) *SMTPEmailSender {
	return &SMTPEmailSender{addr: net.JoinHostPort(host, port), from: from}
}

func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}
