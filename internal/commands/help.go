package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for studybuddy",
	Long:  `Display detailed help for all studybuddy commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
███████╗████████╗██╗   ██╗██████╗ ██╗   ██╗
██╔════╝╚══██╔══╝██║   ██║██╔══██╗╚██╗ ██╔╝
███████╗   ██║   ██║   ██║██║  ██║ ╚████╔╝
╚════██║   ██║   ██║   ██║██║  ██║  ╚██╔╝
███████║   ██║   ╚██████╔╝██████╔╝   ██║
╚══════╝   ╚═╝    ╚═════╝ ╚═════╝    ╚═╝

studybuddy - Character Chat + Study Timer

COMMANDS:

  chat [message]          Talk with your study buddy
    --character           Character id (haku, luna, takumi, ...)
    --no-ui               Send one message and print the reply

    Interactive keys:
      enter         Send message
      tab           Switch character (history is kept)
      esc           Quit

  characters              List available characters
  characters select <id>  Choose your default character

  study                   Open the interactive study timer
  start                   Start studying and open the timer

    Interactive keys:
      s             Start / stop the timer
      esc/q         Quit

  status                  Show today's progress toward the goal
  goal <hours>            Set the daily study goal
  log                     Show today's study sessions
    --history N           Daily totals for the last N archived days

  help                    Show this help
  version                 Show version information

The chat needs a running relay server (see cmd/relay); point the
client at it with STUDYBUDDY_RELAY_URL when it is not on
localhost:3000. Progress resets at local midnight; past days stay
available via 'log --history'.

`)
}
