package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/db"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/study"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/tui"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Open the interactive study timer",
	Long: `Open the study timer screen showing today's progress toward your goal.

Examples:
  studybuddy study      # Interactive timer screen
  studybuddy start      # Start the timer without the screen
  studybuddy goal 3     # Aim for 3 hours a day`,
	Run: func(cmd *cobra.Command, args []string) {
		ledger, err := openLedger()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer db.Close()

		ledger.ScheduleRollover()
		defer ledger.Close()

		if err := tui.RunStudyTUI(ledger); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

// startCmd starts a session right away and opens the timer screen.
// The running session lives only in this process: there is no
// detached timer to stop from another terminal.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start studying and open the timer",
	Run: func(cmd *cobra.Command, args []string) {
		ledger, err := openLedger()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer db.Close()

		if _, err := ledger.Start(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		ledger.ScheduleRollover()
		defer ledger.Close()

		if err := tui.RunStudyTUI(ledger); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's study progress",
	Run: func(cmd *cobra.Command, args []string) {
		ledger, err := openLedger()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer db.Close()

		goal := ledger.Goal()
		fmt.Printf("目標: %g時間\n", goal.TargetHours)
		fmt.Printf("達成: %s (%d%%)\n", study.FormatDuration(goal.CompletedMinutes), ledger.ProgressPercent())

		if current, ok := ledger.Current(); ok {
			fmt.Printf("⏱️  学習中 (開始 %s)\n", current.StartTime.Format("15:04:05"))
		}

		sessions := ledger.TodaySessions()
		if len(sessions) > 0 {
			fmt.Printf("今日のセッション: %d件\n", len(sessions))
		}
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal <hours>",
	Short: "Set the daily study goal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hours, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Printf("Error: invalid hours '%s'\n", args[0])
			return
		}

		ledger, err := openLedger()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer db.Close()

		if err := ledger.SetGoal(hours); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🎯 今日の目標を %g時間 に設定しました\n", hours)
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show study sessions",
	Long: `Show today's study sessions, or past days from the archive.

Examples:
  studybuddy log               # Today's sessions
  studybuddy log --history 7   # Daily totals for the last 7 archived days`,
	Run: func(cmd *cobra.Command, args []string) {
		ledger, err := openLedger()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer db.Close()

		if days, _ := cmd.Flags().GetInt("history"); days > 0 {
			printHistory(days)
			return
		}

		sessions := ledger.TodaySessions()
		if len(sessions) == 0 {
			fmt.Println("今日の学習記録はまだありません")
			return
		}

		fmt.Println("今日の学習セッション:")
		for _, s := range sessions {
			end := "--:--"
			if s.EndTime != nil {
				end = s.EndTime.Format("15:04")
			}
			fmt.Printf("  %s - %s   %s\n", s.StartTime.Format("15:04"), end, study.FormatDuration(s.DurationMinutes))
		}
		fmt.Printf("合計: %s\n", study.FormatDuration(ledger.Goal().CompletedMinutes))
	},
}

func printHistory(days int) {
	summaries, err := db.GetDaySummaries(days)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(summaries) == 0 {
		fmt.Println("アーカイブされた学習記録はまだありません")
		return
	}

	fmt.Println("過去の学習記録:")
	for _, s := range summaries {
		fmt.Printf("  %s   %s (%d件)\n", s.Day, study.FormatDuration(s.TotalMinutes), s.Sessions)
	}
}

func init() {
	logCmd.Flags().Int("history", 0, "Show daily totals for the last N archived days")
}
