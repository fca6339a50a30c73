package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/chat"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/config"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/relay"
	"github.com/Marstronix218/yui-study-buddy-bot/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with your study buddy",
	Long: `Open the interactive chat screen, or send a single message with --no-ui.

Examples:
  studybuddy chat                       # Interactive chat
  studybuddy chat --character luna      # Chat with a specific character
  studybuddy chat --no-ui "微分って何？"  # One-shot question`,
	Run: func(cmd *cobra.Command, args []string) {
		loadUserCharacters()

		store, err := openStore()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		// Seed the session from the saved selection unless a
		// character was requested explicitly.
		selected, _ := store.SelectedCharacter()
		if flagID, _ := cmd.Flags().GetString("character"); flagID != "" {
			if _, ok := character.ByID(flagID); !ok {
				fmt.Printf("Error: unknown character '%s' (see 'studybuddy characters')\n", flagID)
				return
			}
			selected = flagID
			if err := store.SaveSelectedCharacter(flagID); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}
		ch := character.ByIDOrDefault(selected)

		session := chat.NewSession(ch)
		client := relay.NewClient(config.RelayURL())

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI || len(args) > 0 {
			message := strings.Join(args, " ")
			if strings.TrimSpace(message) == "" {
				fmt.Println("Error: no message given")
				return
			}
			reply, err := session.Send(context.Background(), client, message)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("%s: %s\n", ch.Name, reply.Content)
			return
		}

		if err := tui.RunChatTUI(session, client, store); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	},
}

func init() {
	chatCmd.Flags().String("character", "", "Character to chat with (id)")
	chatCmd.Flags().Bool("no-ui", false, "Send one message and print the reply")
}
