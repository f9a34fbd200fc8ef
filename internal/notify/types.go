// Package notify assembles and delivers deletion notifications.
package notify

import "context"

// Field is one named entry inside a panel.
type Field struct {
	Name  string
	Value string
}

// AuthorBlock is the name and icon heading a panel.
type AuthorBlock struct {
	Name    string
	IconURL string
}

// Panel is one discrete visual block of a notification. Panels after the
// first are empty shells carrying only a recovered media reference.
type Panel struct {
	Author      *AuthorBlock
	Description string
	Fields      []Field
	ImageURL    string
	URL         string
	Color       int
}

// Notification is the final assembled payload handed to the dispatcher.
type Notification struct {
	GuildID   string
	EventName string
	Panels    []Panel
}

// Dispatcher hands a finished notification to the outbound transport.
// Delivery failures are the transport's problem; the pipeline does not retry.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}
