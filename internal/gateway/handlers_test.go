package gateway

import (
	"encoding/base64"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestEncodeAttachments(t *testing.T) {
	attachments := []*discordgo.MessageAttachment{
		{URL: "https://cdn.example/a.png"},
		{URL: "https://cdn.example/b.png"},
	}
	encoded := EncodeAttachments(attachments)

	parts := []string{
		base64.RawURLEncoding.EncodeToString([]byte("https://cdn.example/a.png")),
		base64.RawURLEncoding.EncodeToString([]byte("https://cdn.example/b.png")),
	}
	if want := parts[0] + "|" + parts[1]; encoded != want {
		t.Fatalf("EncodeAttachments = %q, want %q", encoded, want)
	}
}

func TestEncodeAttachmentsSkipsEmpty(t *testing.T) {
	if got := EncodeAttachments(nil); got != "" {
		t.Fatalf("expected empty encoding, got %q", got)
	}
	attachments := []*discordgo.MessageAttachment{nil, {URL: ""}, {URL: "https://cdn.example/a.png"}}
	got := EncodeAttachments(attachments)
	want := base64.RawURLEncoding.EncodeToString([]byte("https://cdn.example/a.png"))
	if got != want {
		t.Fatalf("EncodeAttachments = %q, want %q", got, want)
	}
}
