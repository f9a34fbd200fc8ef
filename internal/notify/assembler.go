package notify

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/chronicle-bot/chronicle/internal/audit"
	"github.com/chronicle-bot/chronicle/internal/config"
	"github.com/chronicle-bot/chronicle/internal/identity"
	"github.com/chronicle-bot/chronicle/internal/messages"
)

// EventMessageDelete tags notifications produced for deletion events.
const EventMessageDelete = "messageDelete"

const (
	deleteColor        = 8530669
	unknownUserIcon    = "https://chronicle-bot.dev/static/red-x.png"
	emptyContentValue  = "<no message content>"
	attachmentGroupURL = "https://chronicle-bot.dev/attachments"

	// the platform's sentinel for accounts migrated off legacy discriminators
	legacyDiscriminatorRetired = "0"
)

// Assembler deterministically builds notifications from resolved event data.
// It makes no external calls; a record with no content, no attachments, and an
// unresolved author still assembles into a complete payload.
type Assembler struct {
	chunkSize int
}

// NewAssembler creates an assembler with the default content chunk size.
func NewAssembler() *Assembler {
	return &Assembler{chunkSize: config.DefaultChunkSize}
}

// Assemble builds the notification for a deleted message.
func (a *Assembler) Assemble(rec messages.Record, channelName string, actor identity.Identity, attr audit.Attribution) Notification {
	head := Panel{
		Author:      authorBlock(actor),
		Description: fmt.Sprintf("Message deleted in <#%s> (%s)", rec.ChannelID, channelName),
		Color:       deleteColor,
	}

	chunks := Chunkify(rec.Content, a.chunkSize)
	if len(chunks) == 0 {
		head.Fields = append(head.Fields, Field{Name: "Content", Value: emptyContentValue})
	}
	for i, chunk := range chunks {
		name := "Continued"
		if i == 0 {
			name = "Content"
		}
		head.Fields = append(head.Fields, Field{Name: name, Value: chunk})
	}

	head.Fields = append(head.Fields,
		Field{Name: "Date", Value: fmt.Sprintf("<t:%d:F>", rec.Timestamp.Unix())},
		Field{Name: "ID", Value: fmt.Sprintf("```ini\nUser = %s\nMessage = %s```", rec.AuthorID, rec.ID)},
	)

	deleter := rec.AuthorID
	if attr.Attributed {
		deleter = attr.DeleterID
	}
	head.Fields = append(head.Fields, Field{Name: "Deleted by", Value: fmt.Sprintf("<@%s>", deleter)})

	panels := []Panel{head}
	for i, url := range decodeAttachments(rec.AttachmentB64) {
		if i == 0 {
			panels[0].ImageURL = url
			panels[0].URL = attachmentGroupURL
			continue
		}
		panels = append(panels, Panel{ImageURL: url, URL: attachmentGroupURL})
	}

	return Notification{
		GuildID:   rec.GuildID,
		EventName: EventMessageDelete,
		Panels:    panels,
	}
}

func authorBlock(actor identity.Identity) *AuthorBlock {
	if !actor.Resolved {
		return &AuthorBlock{
			Name:    fmt.Sprintf("Unknown User <@%s>", actor.UserID),
			IconURL: unknownUserIcon,
		}
	}
	name := actor.Username
	if actor.Discriminator != "" && actor.Discriminator != legacyDiscriminatorRetired {
		name += "#" + actor.Discriminator
	}
	if actor.Nickname != "" {
		name += fmt.Sprintf(" (%s)", actor.Nickname)
	}
	icon := actor.AvatarURL
	if icon == "" {
		icon = unknownUserIcon
	}
	return &AuthorBlock{Name: name, IconURL: icon}
}

// decodeAttachments turns a pipe-separated base64url blob list into direct
// reference URLs, preserving order. Malformed blobs are dropped.
func decodeAttachments(encoded string) []string {
	if encoded == "" {
		return nil
	}
	var urls []string
	for _, blob := range strings.Split(encoded, "|") {
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(blob, "="))
		if err != nil || len(decoded) == 0 {
			continue
		}
		urls = append(urls, string(decoded))
	}
	return urls
}
