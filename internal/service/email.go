package service

import (
	"fmt"
	"net/smtp"
)

type EmailService interface{ Send(to, subject, body string) error }

// SMTPEmail delivers through a relay that accepts mail without auth,
// typically a local MTA. Address and sender are fixed at construction.
type SMTPEmail struct {
	addr string
	from string
}

func NewEmailService(addr, from string) *SMTPEmail {
	return &SMTPEmail{addr: addr, from: from}
}

func (s *SMTPEmail) Send(to, subject, body string) error {
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, s.message(to, subject, body))
}

func (s *SMTPEmail) message(to, subject, body string) []byte {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", s.from, to, subject)
	headers += "MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n"
	return []byte(headers + "\r\n" + body)
}
