package email

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRenderSessionInviteEscapesInput(t *testing.T) {
	subject, body, err := RenderSessionInvite(InviteData{
		RecipientName: "<script>alert(1)</script>",
		SenderName:    "BandHub",
		When:          "Monday, June 2 from 18:30 to 21:00",
		Link:          "https://bandhub.example/sessions/s1",
	})
	if err != nil {
		t.Fatalf("RenderSessionInvite: %v", err)
	}

	if subject != "Rehearsal invite: Monday, June 2 from 18:30 to 21:00" {
		t.Errorf("subject = %q", subject)
	}
	if strings.Contains(body, "<script>") {
		t.Error("recipient name must be escaped")
	}
	if !strings.Contains(body, "https://bandhub.example/sessions/s1") {
		t.Error("link missing from body")
	}
}

func TestSendWithoutCredentialsLogsAndSucceeds(t *testing.T) {
	var buf bytes.Buffer
	sender := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.New(&buf))

	err := sender.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "hi", HTML: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(buf.String(), "email not sent") {
		t.Errorf("expected dev-mode log line, got %q", buf.String())
	}
}

func TestSendRequiresRecipients(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{}, zerolog.Nop())
	if err := sender.Send(context.Background(), Message{Subject: "x"}); err == nil {
		t.Fatal("expected error for empty recipient list")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{FromName: "BandHub", FromEmail: "noreply@bandhub.example"}, zerolog.Nop())
	raw := string(sender.buildMessage(Message{To: []string{"a@x.io", "b@x.io"}, Subject: "Invite", HTML: "<p>hi</p>"}))

	for _, want := range []string{
		"From: BandHub <noreply@bandhub.example>\r\n",
		"To: a@x.io, b@x.io\r\n",
		"Content-Type: text/html; charset=UTF-8\r\n",
		"\r\n\r\n<p>hi</p>",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
}
