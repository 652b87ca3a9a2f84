package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/ports"
)

// MailTopic is the topic outgoing mail is published on
const MailTopic = "warden.mail"

// MailMessage is the payload published for each outgoing message. An
// out-of-process worker consumes the topic and performs the delivery.
type MailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// QueueMailer implements the Mailer interface by handing messages to a
// Watermill topic
type QueueMailer struct {
	publisher message.Publisher
	topic     string
}

// NewQueueMailer creates a new queue mailer
func NewQueueMailer(publisher message.Publisher) ports.Mailer {
	return &QueueMailer{
		publisher: publisher,
		topic:     MailTopic,
	}
}

// Send publishes the message for delivery
func (m *QueueMailer) Send(ctx context.Context, to core.Email, subject, body string) error {
	payload, err := json.Marshal(MailMessage{
		To:      to.String(),
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	if err := m.publisher.Publish(m.topic, msg); err != nil {
		return fmt.Errorf("failed to publish mail message: %w", err)
	}

	return nil
}
