package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"go.uber.org/zap"
)

var (
	// ErrInputTooShort is returned by Submit when the trimmed query is below the minimum length.
	ErrInputTooShort = errors.New("query is empty or too short")
	// ErrSessionClosed is returned by Submit after Close.
	ErrSessionClosed = errors.New("session closed")
)

// SessionState is the submission pipeline state.
type SessionState string

const (
	StateIdle             SessionState = "idle"
	StateAwaitingResponse SessionState = "awaiting-response"
)

type SessionConfig struct {
	Assistant *Assistant
	// Delay before the bot reply is appended.
	Delay time.Duration
	// MinQueryLength is counted in runes after trimming; values below 1 mean non-empty.
	MinQueryLength int
	// OnMessage observes every appended message, in append order.
	OnMessage func(domain.Message)
	Logger    *zap.Logger
}

// Session owns one visitor transcript. The user message is appended during
// Submit; the reply follows after the delay. Replies are appended in
// submission order even when submissions overlap.
type Session struct {
	info       domain.SessionContext
	assistant  *Assistant
	delay      time.Duration
	minLength  int
	onMessage  func(domain.Message)
	logger     *zap.Logger
	transcript *Transcript

	mu       sync.Mutex
	closed   bool
	awaiting int
	tail     chan struct{}
	pending  sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once

	appendMu sync.Mutex
}

func NewSession(info domain.SessionContext, cfg SessionConfig) *Session {
	assistant := cfg.Assistant
	if assistant == nil {
		assistant = NewAssistant(Dependencies{Logger: cfg.Logger})
	}
	delay := cfg.Delay
	if delay < 0 {
		delay = 0
	}
	minLength := cfg.MinQueryLength
	if minLength < 1 {
		minLength = 1
	}

	return &Session{
		info:       info,
		assistant:  assistant,
		delay:      delay,
		minLength:  minLength,
		onMessage:  cfg.OnMessage,
		logger:     util.LoggerOrNop(cfg.Logger),
		transcript: NewTranscript(),
		stop:       make(chan struct{}),
	}
}

// Start appends the intro message, followed by the fetch failure notice when
// the profile could not be loaded.
func (s *Session) Start() {
	formatter := s.assistant.Formatter()
	s.append(domain.NewBotMessage(formatter.FormatIntro()))
	if s.assistant.FetchFailed() {
		s.append(domain.NewBotMessage(formatter.FormatFetchError()))
	}
}

// Submit appends the user message and schedules the reply. It never blocks on
// the delay.
func (s *Session) Submit(raw string) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Message{}, ErrSessionClosed
	}
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < s.minLength {
		return domain.Message{}, ErrInputTooShort
	}

	userMsg := domain.NewUserMessage(raw)
	s.append(userMsg)

	key, reply := s.assistant.AnswerWithIntent(raw)
	s.logger.Info("Query submitted",
		zap.String("session_id", s.info.SessionID),
		zap.String("intent", key.String()),
	)

	prev := s.tail
	done := make(chan struct{})
	s.tail = done
	s.awaiting++
	s.pending.Add(1)

	go s.deliver(prev, done, domain.NewBotMessage(reply))
	return userMsg, nil
}

func (s *Session) deliver(prev <-chan struct{}, done chan struct{}, reply domain.Message) {
	defer s.pending.Done()
	defer close(done)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-s.stop:
		s.finish(false, reply)
		return
	}

	if prev != nil {
		select {
		case <-prev:
		case <-s.stop:
			s.finish(false, reply)
			return
		}
	}

	s.finish(true, reply)
}

func (s *Session) finish(deliver bool, reply domain.Message) {
	if deliver {
		reply.CreatedAt = time.Now()
		s.append(reply)
	} else {
		s.logger.Debug("Dropped pending reply", zap.String("session_id", s.info.SessionID))
	}

	s.mu.Lock()
	s.awaiting--
	s.mu.Unlock()
}

func (s *Session) append(msg domain.Message) {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	s.transcript.Append(msg)
	if s.onMessage != nil {
		s.onMessage(msg)
	}
}

// State reports awaiting-response while any reply is still pending.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaiting > 0 {
		return StateAwaitingResponse
	}
	return StateIdle
}

func (s *Session) Messages() []domain.Message {
	return s.transcript.Messages()
}

func (s *Session) Info() domain.SessionContext {
	return s.info
}

// Close rejects further submissions and waits for pending replies. When ctx
// ends first the remaining replies are dropped and ctx.Err() is returned.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, constants.BotTiming.DrainTimeout)
		defer cancel()
	}

	drained := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		s.stopOnce.Do(func() { close(s.stop) })
		<-drained
		return ctx.Err()
	}
}

// Abort drops pending replies immediately.
func (s *Session) Abort() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.stop) })
	s.pending.Wait()
}
