package adapter

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/MARYAMM27/portfolio-bot-go/pkg/errors"
)

var (
	controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// ChatFrame is an inbound chat payload. Websocket clients send "text",
// HTTP clients send "query"; either is accepted on both transports.
type ChatFrame struct {
	Text  string `json:"text,omitempty"`
	Query string `json:"query,omitempty"`
}

// MessageAdapter turns transport payloads into visitor queries.
type MessageAdapter struct {
	maxLength int
}

// NewMessageAdapter creates a new MessageAdapter. maxLength <= 0 uses the default limit.
func NewMessageAdapter(maxLength int) *MessageAdapter {
	if maxLength <= 0 {
		maxLength = constants.InputLimits.MaxQueryLength
	}
	return &MessageAdapter{maxLength: maxLength}
}

// ParseFrame decodes a JSON chat frame and returns its sanitized query.
func (ma *MessageAdapter) ParseFrame(payload []byte) (string, error) {
	var frame ChatFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return "", errors.NewValidationError("invalid chat payload", "body", util.TruncateString(string(payload), 64))
	}
	return ma.Sanitize(util.FirstNonEmpty(frame.Text, frame.Query)), nil
}

// Sanitize replaces control characters, collapses whitespace and caps the length.
func (ma *MessageAdapter) Sanitize(input string) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	normalized := strings.TrimSpace(whitespacePattern.ReplaceAllString(withoutControl, " "))

	if normalized == "" {
		return ""
	}

	runes := []rune(normalized)
	if len(runes) > ma.maxLength {
		return strings.TrimSpace(string(runes[:ma.maxLength]))
	}
	return normalized
}
