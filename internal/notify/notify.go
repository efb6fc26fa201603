package notify

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
)

// Sender delivers a broadcast push notification and returns the gateway's
// delivery id.
type Sender interface {
	Send(ctx context.Context, title, body string) (string, error)
}

// FCM sends through Firebase Cloud Messaging to a fixed topic. There is no
// per-user targeting; every subscribed device receives the message.
type FCM struct {
	client *messaging.Client
	topic  string
}

// NewFCM creates a broadcast sender for the given topic.
func NewFCM(client *messaging.Client, topic string) *FCM {
	if topic == "" {
		topic = "all_users"
	}
	return &FCM{client: client, topic: topic}
}

func (f *FCM) Send(ctx context.Context, title, body string) (string, error) {
	return f.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Topic: f.topic,
	})
}

// Log is a no-delivery sender for local development without FCM credentials.
type Log struct {
	logger zerolog.Logger
}

// NewLog creates a sender that only logs the message.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, title, body string) (string, error) {
	l.logger.Info().Str("title", title).Str("body", body).Msg("notification logged, not delivered")
	return "logged", nil
}
