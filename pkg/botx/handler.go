package botx

import (
	"context"
	"strings"
)

// Handler handles requests.
type Handler func(ctx context.Context, req Request) ([]Response, error)

// Middleware wraps a handler.
type Middleware func(Handler) Handler

// With returns a new handler with middleware applied.
func (h Handler) With(mvs ...Middleware) Handler {
	base := h
	for i := len(mvs) - 1; i >= 0; i-- {
		base = mvs[i](base)
	}
	return base
}

// Response is a response from handler.
type Response struct {
	ReplyToMessageID string
	ChatID           string
	Text             string
}

// Request is a request for handler.
type Request struct {
	MessageID string
	Chat      Chat
	Text      string
}

// Command returns the lower-cased first word of the message, if it is a
// command. The "@botname" suffix, added in group chats, is dropped.
func (r Request) Command() string {
	fields := strings.Fields(r.Text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}

// Args returns the words of the request text following the command.
func (r Request) Args() []string {
	fields := strings.Fields(r.Text)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// Chat contains chat information.
type Chat struct {
	ID       string
	Username string
}

// NotFound is a default handler for not found commands.
func NotFound(_ context.Context, req Request) ([]Response, error) {
	return []Response{{
		ChatID: req.Chat.ID,
		Text:   "command not found",
	}}, nil
}
