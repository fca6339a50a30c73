package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Marstronix218/yui-study-buddy-bot/internal/character"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List the available characters",
	Long: `List the characters you can study with.

Pick one with 'studybuddy characters select <id>' or per-chat with
'studybuddy chat --character <id>'. Extra characters can be defined in
~/.studybuddy/characters.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		loadUserCharacters()

		store, err := openStore()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		selected, _ := store.SelectedCharacter()
		if selected == "" {
			selected = character.Default().ID
		}

		for _, c := range character.All() {
			nameStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(c.Color)).
				Bold(true)

			marker := "  "
			if c.ID == selected {
				marker = "▸ "
			}
			fmt.Printf("%s%s (%s) [%s]\n", marker, nameStyle.Render(c.Name), c.Personality, c.ID)
			fmt.Printf("    「%s」\n", c.Catchphrase)
		}
	},
}

var charactersSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Choose your default character",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loadUserCharacters()

		ch, ok := character.ByID(args[0])
		if !ok {
			fmt.Printf("Error: unknown character '%s'\n", args[0])
			return
		}

		store, err := openStore()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := store.SaveSelectedCharacter(ch.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✅ %s を選択しました。%s\n", ch.Name, ch.Catchphrase)
	},
}

func init() {
	charactersCmd.AddCommand(charactersSelectCmd)
}
