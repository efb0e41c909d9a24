package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty chat and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openStoreForUpdate()
		if err != nil {
			return err
		}
		defer closeStore()

		chat := store.CreateChat()
		if err := checkSaved(store); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), chat.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
