package cmd

import (
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <chat-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a chat",
	Long: `Delete a chat and its messages. Deleting the active chat makes the most
recent remaining chat active, or starts a new empty chat if none remain.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStoreForUpdate()
		if err != nil {
			return err
		}
		defer closeStore()

		id, err := store.ResolveID(args[0])
		if err != nil {
			return err
		}
		chat, _ := store.Chat(id)
		if confirm := confirmFor(cmd.InOrStdin()); !deleteYes && confirm != nil &&
			!confirm(fmt.Sprintf("Delete chat %q (%d messages)?", chat.Title, len(chat.Messages))) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}

		if err := store.DeleteChat(id); err != nil {
			return err
		}
		if err := checkSaved(store); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Deleted %q", chat.Title)))
		return nil
	},
}

// askConfirm asks a yes/no question, defaulting to no
func askConfirm(question string) bool {
	confirm := false
	if err := survey.AskOne(&survey.Confirm{Message: question}, &confirm); err != nil {
		internal.LogDebug("Confirmation aborted: %v", err)
		return false
	}
	return confirm
}

// confirmFor returns askConfirm when in is a terminal and nil otherwise,
// so piped input never blocks on a prompt
func confirmFor(in io.Reader) func(string) bool {
	if internal.IsTerminal(in) {
		return askConfirm
	}
	return nil
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}
