package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:     "select <chat-id>",
	Aliases: []string{"open"},
	Short:   "Make a chat the active one",
	Long:    `Make a chat active so the next 'chat-bot chat' continues it. A unique ID prefix is enough.`,
	Args:    cobra.ExactArgs(1),
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
		if err := store.SelectChat(id); err != nil {
			return err
		}
		if err := checkSaved(store); err != nil {
			return err
		}
		chat, _ := store.Chat(id)
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Active chat: %s", chat.Title)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}
