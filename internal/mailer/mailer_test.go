package mailer

import (
	"context"
	"strings"
	"testing"

	"modqueue/internal/config"
)

// recordingSender captures messages instead of delivering them.
type recordingSender struct {
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestSendWelcome(t *testing.T) {
	rec := &recordingSender{}
	m := NewWithSender(rec, "https://app.example.com")

	if err := m.SendWelcome(context.Background(), "invited@example.com"); err != nil {
		t.Fatalf("send welcome: %v", err)
	}
	if len(rec.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(rec.sent))
	}

	msg := rec.sent[0]
	if msg.To != "invited@example.com" {
		t.Errorf("to = %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "https://app.example.com/set-password?email=invited%40example.com") {
		t.Errorf("welcome mail missing setup link:\n%s", msg.HTML)
	}
	if msg.Text == "" {
		t.Error("welcome mail should carry a text alternative")
	}
}

func TestSendPasswordSetConfirmation(t *testing.T) {
	rec := &recordingSender{}
	m := NewWithSender(rec, "https://app.example.com")

	if err := m.SendPasswordSetConfirmation(context.Background(), "done@example.com"); err != nil {
		t.Fatalf("send confirmation: %v", err)
	}
	if len(rec.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(rec.sent))
	}
	if !strings.Contains(rec.sent[0].HTML, "https://app.example.com/login") {
		t.Errorf("confirmation mail missing login link:\n%s", rec.sent[0].HTML)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.MailConfig
		ok   bool
	}{
		{"sendgrid", config.MailConfig{Provider: "sendgrid", SendGridKey: "k", From: "a@b.c"}, true},
		{"sendgrid missing key", config.MailConfig{Provider: "sendgrid", From: "a@b.c"}, false},
		{"smtp", config.MailConfig{Provider: "smtp", SMTPHost: "localhost", SMTPPort: 25, From: "a@b.c"}, true},
		{"smtp missing host", config.MailConfig{Provider: "smtp", SMTPPort: 25, From: "a@b.c"}, false},
		{"unknown provider", config.MailConfig{Provider: "pigeon"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}
