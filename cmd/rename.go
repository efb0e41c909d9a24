package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <chat-id> [title...]",
	Short: "Rename a chat",
	Long:  `Give a chat a new title. An empty title renames it to "Untitled".`,
	Args:  cobra.MinimumNArgs(1),
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
		chat, err := store.RenameChat(id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if err := checkSaved(store); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Renamed to %q", chat.Title)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
