package domain

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

func (s Sender) String() string {
	return string(s)
}

// Message is one transcript entry. Bot text may carry inline anchor markup.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		CreatedAt: time.Now(),
	}
}

func NewUserMessage(text string) Message {
	return NewMessage(SenderUser, text)
}

func NewBotMessage(text string) Message {
	return NewMessage(SenderBot, text)
}

// QuickTag is a predefined question offered to the visitor as a one-click prompt.
type QuickTag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Query string `json:"query"`
}

// InfoBubble is a static hint displayed next to the chat window.
type InfoBubble struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
