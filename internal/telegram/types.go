package telegram

import "strings"

// User represents a Telegram user
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat represents a Telegram chat
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// MessageEntity marks a special span in message text, such as a @mention or /command
type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// Message represents a Telegram message
type Message struct {
	MessageID int             `json:"message_id"`
	From      *User           `json:"from,omitempty"`
	Chat      Chat            `json:"chat"`
	Date      int64           `json:"date"`
	Text      string          `json:"text,omitempty"`
	Entities  []MessageEntity `json:"entities,omitempty"`
}

// Update is one item returned by getUpdates
type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Mentions reports whether the message @-mentions the given bot username.
// Entity offsets are in UTF-16 code units, so the text is matched on the
// mention string rather than sliced by offset.
func (m *Message) Mentions(username string) bool {
	if m == nil || username == "" {
		return false
	}
	hasMention := false
	for _, e := range m.Entities {
		if e.Type == "mention" {
			hasMention = true
			break
		}
	}
	if !hasMention {
		return false
	}
	return strings.Contains(strings.ToLower(m.Text), "@"+strings.ToLower(username))
}
