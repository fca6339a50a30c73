package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/chat"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/models"
)

// CharacterSaver persists the selected character between runs.
type CharacterSaver interface {
	SaveSelectedCharacter(id string) error
}

// ChatModel is the TUI model for the chat screen.
type ChatModel struct {
	session *chat.Session
	relay   chat.Relay
	saver   CharacterSaver
	catalog []character.Character

	input  textinput.Model
	width  int
	height int

	// Animation state for the waiting indicator
	thinkingFrame int
}

// replySettledMsg is delivered when a relay round-trip finishes.
type replySettledMsg struct {
	req   chat.Request
	reply string
	err   error
}

// thinkingTickMsg drives the waiting indicator animation.
type thinkingTickMsg struct{}

// NewChatModel creates the chat screen model.
func NewChatModel(session *chat.Session, relay chat.Relay, saver CharacterSaver) ChatModel {
	input := textinput.New()
	input.Placeholder = "メッセージを入力..."
	input.CharLimit = 500
	input.Width = 60
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	input.Focus()

	return ChatModel{
		session: session,
		relay:   relay,
		saver:   saver,
		catalog: character.All(),
		input:   input,
	}
}

// Init initializes the chat model
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, m.width-8)
		return m, nil

	case replySettledMsg:
		if msg.err != nil {
			m.session.Fail(msg.req)
		} else {
			m.session.Complete(msg.req, msg.reply)
		}
		return m, nil

	case thinkingTickMsg:
		if !m.session.Awaiting() {
			return m, nil
		}
		m.thinkingFrame = (m.thinkingFrame + 1) % 4
		return m, thinkingTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.startSend()
		case "tab":
			m.cycleCharacter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetPendingInput(m.input.Value())
	return m, cmd
}

// startSend begins a relay round-trip for the current input. Blank
// input and sends while a reply is pending are silently ignored.
func (m ChatModel) startSend() (tea.Model, tea.Cmd) {
	req, err := m.session.Begin(m.input.Value())
	if err != nil {
		return m, nil
	}
	m.input.Reset()

	relayClient := m.relay
	call := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		reply, err := relayClient.RequestReply(ctx, req.Message, req.Character, req.History)
		return replySettledMsg{req: req, reply: reply, err: err}
	}
	return m, tea.Batch(call, thinkingTick())
}

// cycleCharacter switches to the next character in the catalog and
// persists the choice.
func (m *ChatModel) cycleCharacter() {
	current := m.session.Active()
	for i, c := range m.catalog {
		if c.ID == current.ID {
			next := m.catalog[(i+1)%len(m.catalog)]
			m.session.SwitchCharacter(next)
			if m.saver != nil {
				_ = m.saver.SaveSelectedCharacter(next.ID)
			}
			return
		}
	}
	// Active character no longer in catalog, fall back to the head.
	if len(m.catalog) > 0 {
		m.session.SwitchCharacter(m.catalog[0])
	}
}

func thinkingTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return thinkingTickMsg{}
	})
}

// View renders the chat TUI
func (m ChatModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	helpBar := m.renderHelpBar()
	inputBar := m.renderInputBar()

	// Everything except header, input and help is message space.
	logHeight := m.height - lipgloss.Height(header) - lipgloss.Height(inputBar) - 2
	log := m.renderMessageLog(logHeight)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		log,
		inputBar,
		helpBar,
	)
}

// renderHeader renders the active character banner
func (m ChatModel) renderHeader() string {
	active := m.session.Active()

	nameStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(active.Color)).
		Bold(true)
	tagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText))

	title := fmt.Sprintf("%s %s", nameStyle.Render(active.Name), tagStyle.Render("("+active.Personality+")"))

	headerStyle := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(ColorBorder))

	return headerStyle.Render(title)
}

// renderMessageLog renders the most recent messages that fit
func (m ChatModel) renderMessageLog(height int) string {
	messages := m.session.Messages()

	var lines []string
	for _, msg := range messages {
		lines = append(lines, m.renderMessage(msg))
	}
	if m.session.Awaiting() {
		dots := strings.Repeat("・", m.thinkingFrame+1)
		waiting := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render(m.session.Active().Name + " が入力中" + dots)
		lines = append(lines, waiting)
	}

	content := strings.Join(lines, "\n")

	// Keep the tail visible: drop lines from the top when the log is
	// taller than the viewport.
	rendered := strings.Split(content, "\n")
	if len(rendered) > height && height > 0 {
		rendered = rendered[len(rendered)-height:]
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		Padding(0, 1).
		Render(strings.Join(rendered, "\n"))
}

// renderMessage renders one chat bubble line
func (m ChatModel) renderMessage(msg models.Message) string {
	if msg.Sender == models.SenderUser {
		bubble := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorCardBackground)).
			Padding(0, 1).
			Render(msg.Content)
		return lipgloss.NewStyle().
			Width(m.width - 4).
			Align(lipgloss.Right).
			Render(bubble)
	}

	ch := character.ByIDOrDefault(msg.CharacterID)
	name := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ch.Color)).
		Bold(true).
		Render(ch.Name)
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Render(msg.Content)
	return name + " " + body
}

// renderInputBar renders the input field
func (m ChatModel) renderInputBar() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color(ColorBorder))

	if m.session.Awaiting() {
		locked := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("返信を待っています...")
		return style.Render(locked)
	}
	return style.Render(m.input.View())
}

func (m ChatModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	return helpStyle.Render("enter send · tab switch character · esc quit")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
