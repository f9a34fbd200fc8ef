// Package messages persists message snapshots and buffers recent ones in a
// write-behind batch ahead of the PostgreSQL store.
package messages

import (
	"context"
	"time"
)

// Record is the last-known snapshot of a message. It is immutable after
// retrieval; deletion handling reads it and never writes it back.
type Record struct {
	ID            string
	AuthorID      string
	ChannelID     string
	GuildID       string
	Content       string
	AttachmentB64 string // pipe-separated base64url-encoded attachment URLs
	Timestamp     time.Time
}

// Flusher receives batches of buffered records for durable storage.
type Flusher interface {
	InsertBatch(ctx context.Context, records []Record) error
}
