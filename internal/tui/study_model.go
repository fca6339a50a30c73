package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/study"
)

// StudyModel is the TUI model for the study timer screen.
type StudyModel struct {
	ledger *study.Ledger

	width  int
	height int

	// Timer state
	elapsedTime time.Duration
	lastUpdate  time.Time

	// Animation state
	timerAnimation int

	// UI state
	notice string // transient line under the timer (saved session, errors)
}

// studyTickMsg is sent every second to update the timer
type studyTickMsg struct{}

// studyAnimationTickMsg is sent for faster animations
type studyAnimationTickMsg struct{}

// NewStudyModel creates a new study timer TUI model
func NewStudyModel(ledger *study.Ledger) StudyModel {
	m := StudyModel{
		ledger:     ledger,
		lastUpdate: time.Now(),
	}
	if current, ok := ledger.Current(); ok {
		m.elapsedTime = time.Since(current.StartTime)
	}
	return m
}

// Init initializes the study model
func (m StudyModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return studyTickMsg{}
		}),
		tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
			return studyAnimationTickMsg{}
		}),
	)
}

// Update handles messages
func (m StudyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case studyTickMsg:
		now := time.Now()
		if current, ok := m.ledger.Current(); ok {
			m.elapsedTime = now.Sub(current.StartTime)
		} else {
			m.elapsedTime = 0
		}
		m.lastUpdate = now
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return studyTickMsg{}
		})

	case studyAnimationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		return m, tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
			return studyAnimationTickMsg{}
		})

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			return m.toggleSession(), nil
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

// toggleSession starts or stops the study timer
func (m StudyModel) toggleSession() StudyModel {
	if m.ledger.Studying() {
		session, err := m.ledger.Stop()
		if err != nil {
			m.notice = fmt.Sprintf("保存に失敗しました: %v", err)
			return m
		}
		m.elapsedTime = 0
		m.notice = fmt.Sprintf("お疲れさまでした！ %s を記録しました", study.FormatDuration(session.DurationMinutes))
		return m
	}

	if _, err := m.ledger.Start(); err != nil {
		m.notice = fmt.Sprintf("開始できません: %v", err)
		return m
	}
	m.notice = ""
	return m
}

// View renders the study timer TUI
func (m StudyModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	// Narrow view: single panel
	if m.width < 90 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderSessionsPanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		helpBar,
	)
}

// renderTimerPanel renders the timer and goal progress
func (m StudyModel) renderTimerPanel(width, height int) string {
	var components []string

	studying := m.ledger.Studying()

	// Animated header
	headerText := "学習記録"
	if studying {
		animChars := []string{"⏱", "⏲", "⏱", "⏲"}
		headerText = fmt.Sprintf("%s  学習中  %s", animChars[m.timerAnimation], animChars[m.timerAnimation])
	}
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(headerText))

	// Elapsed clock
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, clockStyle.Render(formatClock(m.elapsedTime)))

	if current, ok := m.ledger.Current(); ok {
		startInfo := fmt.Sprintf("開始時間: %s", current.StartTime.Format("15:04:05"))
		startStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, startStyle.Render(startInfo))
	}

	// Goal progress
	goal := m.ledger.Goal()
	percent := m.ledger.ProgressPercent()
	goalLine := fmt.Sprintf("目標: %s時間   達成: %s (%d%%)",
		trimFloat(goal.TargetHours),
		study.FormatDuration(goal.CompletedMinutes),
		percent,
	)
	goalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, goalStyle.Render(goalLine))
	components = append(components, lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width).
		Render(renderProgressBar(percent, min(width-8, 40))))

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess)).
			Align(lipgloss.Center).
			Width(width)
		components = append(components, noticeStyle.Render(m.notice))
	}

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(content)
}

// renderSessionsPanel lists today's completed sessions
func (m StudyModel) renderSessionsPanel(width, height int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width - 4)
	b.WriteString(titleStyle.Render("今日の学習セッション"))
	b.WriteString("\n\n")

	sessions := m.ledger.TodaySessions()
	if len(sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width - 4)
		b.WriteString(emptyStyle.Render("まだ記録がありません"))
	}

	rowStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width - 4)
	for _, s := range sessions {
		end := "--:--"
		if s.EndTime != nil {
			end = s.EndTime.Format("15:04")
		}
		row := fmt.Sprintf("%s - %s   %s",
			s.StartTime.Format("15:04"),
			end,
			study.FormatDuration(s.DurationMinutes),
		)
		b.WriteString(rowStyle.Render(row))
		b.WriteString("\n")
	}

	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder))

	return panelStyle.Render(b.String())
}

func (m StudyModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "s 学習開始 · esc/q quit"
	if m.ledger.Studying() {
		helpText = "s 学習終了 · esc/q quit"
	}
	return helpStyle.Render(helpText)
}

// renderProgressBar renders a simple filled bar for a percentage
func renderProgressBar(percent, width int) string {
	if width < 4 {
		width = 4
	}
	filled := width * percent / 100
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render(bar)
}

// formatClock renders elapsed time as HH:MM:SS
func formatClock(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// trimFloat renders a goal value without a trailing ".0"
func trimFloat(v float64) string {
	if v == float64(int(v)) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
