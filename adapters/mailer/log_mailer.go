package mailer

import (
	"context"
	"log"

	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/ports"
)

// LogMailer writes messages to the process log instead of delivering them.
// It stands in for a real delivery channel during development and tests.
type LogMailer struct{}

// NewLogMailer creates a new log mailer
func NewLogMailer() ports.Mailer {
	return &LogMailer{}
}

// Send logs the message
func (m *LogMailer) Send(ctx context.Context, to core.Email, subject, body string) error {
	log.Printf("mail to %s: %s: %s", to, subject, body)
	return nil
}
