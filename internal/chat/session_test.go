package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/chat"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/models"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/relay"
)

type stubRelay struct {
	reply string
	err   error

	gotMessage   string
	gotCharacter character.Character
	gotHistory   []relay.Turn
	calls        int
}

func (s *stubRelay) RequestReply(ctx context.Context, message string, ch character.Character, history []relay.Turn) (string, error) {
	s.calls++
	s.gotMessage = message
	s.gotCharacter = ch
	s.gotHistory = history
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func haku(t *testing.T) character.Character {
	t.Helper()
	ch, ok := character.ByID("haku")
	if !ok {
		t.Fatal("built-in character haku missing")
	}
	return ch
}

func luna(t *testing.T) character.Character {
	t.Helper()
	ch, ok := character.ByID("luna")
	if !ok {
		t.Fatal("built-in character luna missing")
	}
	return ch
}

func TestNewSessionSeedsWelcomeMessage(t *testing.T) {
	ch := haku(t)
	session := chat.NewSession(ch)

	messages := session.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 welcome message, got %d", len(messages))
	}

	welcome := messages[0]
	if welcome.Sender != models.SenderAssistant {
		t.Errorf("welcome sender = %q, want assistant", welcome.Sender)
	}
	if welcome.CharacterID != ch.ID {
		t.Errorf("welcome character = %q, want %q", welcome.CharacterID, ch.ID)
	}
	if !strings.Contains(welcome.Content, ch.Name) || !strings.Contains(welcome.Content, ch.Catchphrase) {
		t.Errorf("welcome text missing name or catchphrase: %q", welcome.Content)
	}
	if session.Awaiting() {
		t.Error("fresh session should not be awaiting a reply")
	}
}

func TestSendAppendsUserThenReply(t *testing.T) {
	ch := haku(t)
	session := chat.NewSession(ch)
	r := &stubRelay{reply: "いい質問ですね。"}

	msg, err := session.Send(context.Background(), r, "微分って何？")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if msg.Content != "いい質問ですね。" {
		t.Errorf("reply content = %q", msg.Content)
	}

	messages := session.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected welcome + user + reply, got %d messages", len(messages))
	}
	if messages[1].Sender != models.SenderUser || messages[1].Content != "微分って何？" {
		t.Errorf("second message should be the user text, got %+v", messages[1])
	}
	if messages[2].Sender != models.SenderAssistant || messages[2].CharacterID != ch.ID {
		t.Errorf("third message should be the attributed reply, got %+v", messages[2])
	}
	if session.Awaiting() {
		t.Error("session should be idle after the reply settles")
	}
}

func TestSendCarriesPriorLogAsHistory(t *testing.T) {
	session := chat.NewSession(haku(t))
	r := &stubRelay{reply: "ok"}

	if _, err := session.Send(context.Background(), r, "first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := session.Send(context.Background(), r, "second"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// Second call sees welcome + first user message + first reply.
	if len(r.gotHistory) != 3 {
		t.Fatalf("history length = %d, want 3", len(r.gotHistory))
	}
	if r.gotHistory[0].Role != "assistant" {
		t.Errorf("welcome should map to assistant role, got %q", r.gotHistory[0].Role)
	}
	if r.gotHistory[1].Role != "user" || r.gotHistory[1].Content != "first" {
		t.Errorf("unexpected history entry: %+v", r.gotHistory[1])
	}
	if r.gotMessage != "second" {
		t.Errorf("new message should travel separately from history, got %q", r.gotMessage)
	}
}

func TestSendFailureAppendsFallback(t *testing.T) {
	session := chat.NewSession(haku(t))
	r := &stubRelay{err: errors.New("connection refused")}

	msg, err := session.Send(context.Background(), r, "hello")
	if err != nil {
		t.Fatalf("relay failures must be swallowed, got %v", err)
	}
	if msg.Sender != models.SenderAssistant {
		t.Errorf("fallback sender = %q", msg.Sender)
	}
	if !strings.Contains(msg.Content, "エラー") {
		t.Errorf("fallback text should apologize, got %q", msg.Content)
	}

	if got := len(session.Messages()); got != 3 {
		t.Errorf("expected exactly one fallback message, log has %d entries", got)
	}
	if session.Awaiting() {
		t.Error("session should be idle after a failed send")
	}
}

func TestSendRejectsBlankInput(t *testing.T) {
	session := chat.NewSession(haku(t))
	r := &stubRelay{reply: "ok"}

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := session.Send(context.Background(), r, text); !errors.Is(err, chat.ErrEmptyMessage) {
			t.Errorf("Send(%q) error = %v, want ErrEmptyMessage", text, err)
		}
	}
	if r.calls != 0 {
		t.Errorf("relay called %d times for blank input", r.calls)
	}
	if got := len(session.Messages()); got != 1 {
		t.Errorf("blank sends must not grow the log, got %d messages", got)
	}
}

func TestSecondSendRejectedWhileAwaiting(t *testing.T) {
	session := chat.NewSession(haku(t))

	req, err := session.Begin("first")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if _, err := session.Begin("second"); !errors.Is(err, chat.ErrAwaitingReply) {
		t.Fatalf("Begin while awaiting = %v, want ErrAwaitingReply", err)
	}
	if got := len(session.Messages()); got != 2 {
		t.Errorf("rejected send must not append, log has %d entries", got)
	}

	session.Complete(req, "done")
	if _, err := session.Begin("second"); err != nil {
		t.Errorf("Begin after settle failed: %v", err)
	}
}

func TestSwitchCharacter(t *testing.T) {
	h, l := haku(t), luna(t)
	session := chat.NewSession(h)

	session.SwitchCharacter(h)
	if got := len(session.Messages()); got != 1 {
		t.Errorf("switching to the active character appended a message (log %d)", got)
	}

	session.SwitchCharacter(l)
	messages := session.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected one switch notice, log has %d entries", len(messages))
	}
	notice := messages[1]
	if notice.CharacterID != l.ID || !strings.Contains(notice.Content, l.Name) {
		t.Errorf("notice should come from the new character: %+v", notice)
	}
	if session.Active().ID != l.ID {
		t.Errorf("active character = %q, want %q", session.Active().ID, l.ID)
	}
	// History survives the switch.
	if messages[0].CharacterID != h.ID {
		t.Error("previous messages must be retained across a switch")
	}
}

func TestReplyAttributedToCharacterAtSendTime(t *testing.T) {
	h, l := haku(t), luna(t)
	session := chat.NewSession(h)

	req, err := session.Begin("who are you?")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	// Switch while the reply is still in flight.
	session.SwitchCharacter(l)
	reply := session.Complete(req, "...")

	if reply.CharacterID != h.ID {
		t.Errorf("late reply attributed to %q, want the character captured at send time %q", reply.CharacterID, h.ID)
	}
	if req.Character.ID != h.ID {
		t.Errorf("request character = %q, want %q", req.Character.ID, h.ID)
	}
}

func TestMessageIDsStayUniqueOnFrozenClock(t *testing.T) {
	frozen := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	session := chat.NewSession(haku(t), chat.WithClock(func() time.Time { return frozen }))
	r := &stubRelay{reply: "ok"}

	for i := 0; i < 3; i++ {
		if _, err := session.Send(context.Background(), r, "ping"); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	var prev string
	for _, m := range session.Messages() {
		if seen[m.ID] {
			t.Fatalf("duplicate message id %q", m.ID)
		}
		seen[m.ID] = true
		if m.ID <= prev {
			t.Fatalf("ids not increasing: %q after %q", m.ID, prev)
		}
		prev = m.ID
	}
}

func TestInitializeResetsLog(t *testing.T) {
	h, l := haku(t), luna(t)
	session := chat.NewSession(h)
	r := &stubRelay{reply: "ok"}
	if _, err := session.Send(context.Background(), r, "hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	session.Initialize(l)

	messages := session.Messages()
	if len(messages) != 1 {
		t.Fatalf("Initialize should start a fresh log, got %d messages", len(messages))
	}
	if messages[0].CharacterID != l.ID {
		t.Errorf("fresh welcome from %q, want %q", messages[0].CharacterID, l.ID)
	}
}
