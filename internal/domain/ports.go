package domain

import "context"

// StateStore is the per-session key/value persistence behind the cart, history and
// visited lists. Values are JSON encoded.
type StateStore interface {
	Load(ctx context.Context, session, key string, dst any) (bool, error)
	Save(ctx context.Context, session, key string, v any) error
	Delete(ctx context.Context, session, key string) error
}

// Assistant is the remote conversational collaborator. It never returns an error;
// failures are reported through AssistantReply.Status.
type Assistant interface {
	Ask(ctx context.Context, req AssistantRequest) AssistantReply
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type ChatMessage struct {
	Role    string `json:"role"` // user|assistant
	Content string `json:"content"`
}

type AssistantRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []ChatMessage `json:"messages"`
}

type ReplyStatus int

const (
	ReplyOK ReplyStatus = iota
	ReplyUnavailable
	ReplyMalformed
)

func (s ReplyStatus) String() string {
	switch s {
	case ReplyOK:
		return "ok"
	case ReplyUnavailable:
		return "unavailable"
	case ReplyMalformed:
		return "malformed"
	}
	return "unknown"
}

type AssistantReply struct {
	Status ReplyStatus
	Text   string
	Err    error // diagnostics only
}

func (r AssistantReply) OK() bool { return r.Status == ReplyOK && r.Text != "" }

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
