package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/chat"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/study"
)

// RunChatTUI starts the interactive chat screen.
func RunChatTUI(session *chat.Session, relay chat.Relay, saver CharacterSaver) error {
	model := NewChatModel(session, relay, saver)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	fmt.Println("またね！")
	return nil
}

// RunStudyTUI starts the interactive study timer screen.
func RunStudyTUI(ledger *study.Ledger) error {
	model := NewStudyModel(ledger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// The in-progress session lives only in this process, so leaving
	// the screen without stopping discards it.
	if current, ok := ledger.Current(); ok {
		fmt.Printf("💡 %s からの学習セッションは保存されませんでした。\n", current.StartTime.Format("15:04:05"))
		fmt.Println("   次回は 's' で終了してから画面を閉じてください。")
	}

	return nil
}
