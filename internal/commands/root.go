package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/db"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/storage"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/study"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "A character-driven study companion",
	Long: `studybuddy pairs a chat companion with a daily study timer.
Talk to a character that keeps you motivated, track your study time,
and watch your progress toward a daily goal.`,
}

// openStore opens the client-local snapshot store
func openStore() (*storage.SnapshotStore, error) {
	path, err := storage.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate state file: %w", err)
	}
	return storage.NewSnapshotStore(path), nil
}

// openLedger opens the study ledger with the archive wired in, so an
// overdue midnight rollover lands in the history database
func openLedger() (*study.Ledger, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		return nil, err
	}
	return study.NewLedger(store, study.WithArchiver(db.ArchiveSessions))
}

// loadUserCharacters merges the optional user character file into the
// catalog. A broken file is reported but never fatal.
func loadUserCharacters() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}
	path := filepath.Join(homeDir, ".studybuddy", "characters.yaml")
	if err := character.LoadUserFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studybuddy %s (commit %s, built %s)\n", version, commit, date)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands here
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(charactersCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
