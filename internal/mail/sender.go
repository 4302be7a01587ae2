// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mail delivers the rendered digest over SMTP.
package mail

import (
	"bufio"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// sendMail is net/smtp.SendMail. Package-level var for test substitution.
var sendMail = smtp.SendMail

// Sender sends HTML digests to the configured recipient list. A Sender
// with no credentials configured skips delivery instead of failing, so
// local runs still produce artifacts.
type Sender struct {
	cfg types.MailConfig
	log zerolog.Logger
}

// NewSender builds a sender; it does not validate credentials so that a
// credential-less configuration degrades to skip-at-send-time.
func NewSender(cfg types.MailConfig, log zerolog.Logger) *Sender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "[DailyAI Scholar] "
	}
	return &Sender{cfg: cfg, log: log}
}

// Send delivers the HTML body to every recipient in the configured
// list. Without credentials it logs and returns nil.
func (s *Sender) Send(subject, htmlBody string) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		s.log.Warn().Msg("mail credentials not configured, skipping delivery")
		return nil
	}

	recipients, err := LoadRecipients(s.cfg.RecipientsFile)
	if err != nil {
		return fmt.Errorf("loading recipients: %w", err)
	}
	if len(recipients) == 0 {
		s.log.Warn().Str("file", s.cfg.RecipientsFile).Msg("recipient list is empty, skipping delivery")
		return nil
	}

	msg := buildMessage(s.cfg.Username, recipients, s.cfg.SubjectPrefix+subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := sendMail(addr, auth, s.cfg.Username, recipients, msg); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	s.log.Info().Int("recipients", len(recipients)).Str("subject", subject).Msg("digest delivered")
	return nil
}

// LoadRecipients reads one address per line, skipping blanks and
// #-comments.
func LoadRecipients(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recipients []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		recipients = append(recipients, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading recipient list: %w", err)
	}
	return recipients, nil
}

// buildMessage assembles an RFC 5322 message with an HTML body. The
// subject is Q-encoded so non-ASCII prefixes survive transport.
func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
