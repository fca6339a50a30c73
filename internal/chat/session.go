// Package chat owns the conversation state machine: the ordered
// message log, the active character, the input buffer and the
// one-outstanding-request guard.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/models"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/relay"
)

// fallbackText is appended in place of a reply when the relay call
// fails for any reason. The failure itself is not surfaced further.
const fallbackText = "すみません、エラーが発生しました。もう一度お試しください。"

var (
	// ErrEmptyMessage is returned by Begin for blank input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrAwaitingReply is returned by Begin while a request is
	// already outstanding. Only one request may be in flight; this
	// guard is what keeps replies in send order.
	ErrAwaitingReply = errors.New("a reply is already pending")
)

// Relay produces an assistant reply for one chat turn.
type Relay interface {
	RequestReply(ctx context.Context, message string, ch character.Character, history []relay.Turn) (string, error)
}

// Request carries everything a relay call needs, captured at send
// time. Switching characters while a request is in flight does not
// change which character the eventual reply is attributed to.
type Request struct {
	Message   string
	Character character.Character
	History   []relay.Turn
}

// Session is the in-memory chat state. It is not persisted: a new
// session starts fresh with a welcome message. Not safe for
// concurrent use; callers drive it from a single event loop.
type Session struct {
	messages []models.Message
	active   character.Character
	pending  string
	awaiting bool

	now      func() time.Time
	lastNano int64
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the session's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates a session seeded with the given character and
// its welcome message.
func NewSession(ch character.Character, opts ...Option) *Session {
	s := &Session{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Initialize(ch)
	return s
}

// Initialize resets the log to a single welcome message from the
// given character and makes it active. Any previous history is gone.
func (s *Session) Initialize(ch character.Character) {
	s.active = ch
	s.awaiting = false
	s.pending = ""
	s.messages = nil
	s.append(models.Message{
		Content:     fmt.Sprintf("こんにちは！%sです。%s 今日は何を勉強しましょうか？", ch.Name, ch.Catchphrase),
		Sender:      models.SenderAssistant,
		CharacterID: ch.ID,
	})
}

// SwitchCharacter makes a different character active and appends a
// notice message in its voice. Unlike Initialize the existing history
// is preserved. Switching to the already active character does
// nothing. A switch while a reply is pending is allowed; the pending
// reply stays attributed to the character captured at send time.
func (s *Session) SwitchCharacter(ch character.Character) {
	if ch.ID == s.active.ID {
		return
	}
	s.active = ch
	s.append(models.Message{
		Content:     fmt.Sprintf("%sに切り替わりました。%s", ch.Name, ch.Catchphrase),
		Sender:      models.SenderAssistant,
		CharacterID: ch.ID,
	})
}

// Begin starts a send: it validates the text, appends the user
// message to the log immediately and marks the session as awaiting a
// reply. The returned Request must be settled with exactly one
// Complete or Fail call once the relay round-trip finishes.
func (s *Session) Begin(text string) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, ErrEmptyMessage
	}
	if s.awaiting {
		return Request{}, ErrAwaitingReply
	}

	// Map the prior log to relay turns before appending the new user
	// message. Synthesized welcome and switch notices count as
	// assistant history: they are part of the conversation the model
	// should see.
	history := make([]relay.Turn, 0, len(s.messages))
	for _, m := range s.messages {
		history = append(history, relay.Turn{
			Role:    string(m.Sender),
			Content: m.Content,
		})
	}

	s.append(models.Message{
		Content: text,
		Sender:  models.SenderUser,
	})
	s.pending = ""
	s.awaiting = true

	return Request{
		Message:   text,
		Character: s.active,
		History:   history,
	}, nil
}

// Complete settles an outstanding request with the relay's reply.
func (s *Session) Complete(req Request, reply string) models.Message {
	return s.settle(req, reply)
}

// Fail settles an outstanding request with the fallback notice.
func (s *Session) Fail(req Request) models.Message {
	return s.settle(req, fallbackText)
}

func (s *Session) settle(req Request, content string) models.Message {
	s.awaiting = false
	return s.append(models.Message{
		Content:     content,
		Sender:      models.SenderAssistant,
		CharacterID: req.Character.ID,
	})
}

// Send runs a full round-trip against the relay: optimistic user
// message, relay call, then exactly one assistant message. Relay
// failures are swallowed into the fallback notice; the returned error
// only reports input that never went out (empty text, send while a
// reply is pending).
func (s *Session) Send(ctx context.Context, r Relay, text string) (models.Message, error) {
	req, err := s.Begin(text)
	if err != nil {
		return models.Message{}, err
	}
	reply, err := r.RequestReply(ctx, req.Message, req.Character, req.History)
	if err != nil {
		return s.Fail(req), nil
	}
	return s.Complete(req, reply), nil
}

// Messages returns a copy of the message log in append order.
func (s *Session) Messages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Active returns the currently active character.
func (s *Session) Active() character.Character {
	return s.active
}

// Awaiting reports whether a relay round-trip is outstanding.
func (s *Session) Awaiting() bool {
	return s.awaiting
}

// PendingInput returns the unsent input buffer.
func (s *Session) PendingInput() string {
	return s.pending
}

// SetPendingInput stores the unsent input buffer.
func (s *Session) SetPendingInput(text string) {
	s.pending = text
}

// append stamps the message with a timestamp and a collision-safe id
// and adds it to the log. The log is append-only.
func (s *Session) append(m models.Message) models.Message {
	now := s.now()
	m.ID = s.nextID(now)
	m.Timestamp = now
	s.messages = append(s.messages, m)
	return m
}

// nextID derives a message id from the clock. Ids are strictly
// increasing even when two messages land on the same instant.
func (s *Session) nextID(now time.Time) string {
	n := now.UnixNano()
	if n <= s.lastNano {
		n = s.lastNano + 1
	}
	s.lastNano = n
	return strconv.FormatInt(n, 10)
}
