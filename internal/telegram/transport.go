package telegram

import "context"

type Formatting string

const (
	FormatPlain    Formatting = "plain"
	FormatHTML     Formatting = "html"
	FormatMarkdown Formatting = "markdown"
)

// PrivateChat is the only chat kind that can register as a notification target.
const PrivateChat = "private"

// Update is the part of an incoming bot update the registry cares about.
type Update struct {
	UpdateID  int64
	ChatID    int64
	ChatType  string
	Username  string
	FirstName string
}

func (u Update) IsPrivate() bool {
	return u.ChatType == PrivateChat && u.ChatID != 0
}

// Transport sends messages to chats and polls for new updates.
// FetchUpdates returns updates with an id strictly greater than sinceID.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string, formatting Formatting) (bool, error)
	FetchUpdates(ctx context.Context, sinceID int64, timeoutSeconds int) ([]Update, error)
}

// NextCursor advances the polling cursor past every update id seen. It never
// moves backwards.
func NextCursor(current int64, ids []int64) int64 {
	next := current
	for _, id := range ids {
		if id > next {
			next = id
		}
	}
	return next
}
