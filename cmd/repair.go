package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var (
	repairReset  bool
	repairDryRun bool
)

// repairCmd represents the repair command
var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Rewrite saved chats in canonical form",
	Long: `Load the saved chats, drop entries that cannot be used (chats without an
ID, duplicate chats, messages with an unknown role, a dangling active chat)
and write the result back.

Saved data that cannot be decoded at all is left untouched unless --reset is
given, which replaces it with an empty chat list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := internal.OpenKeyValueStore(cfg.Storage.Backend, cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		defer func() { _ = kv.Close() }()

		snapshots := internal.NewSnapshotStore(kv)
		snapshot, err := snapshots.Load()
		var parseErr *internal.ParseError
		switch {
		case errors.As(err, &parseErr):
			if !repairReset {
				return fmt.Errorf("%w (use --reset to discard the saved chats)", err)
			}
			internal.LogWarn("Discarding unreadable chats: %v", err)
			snapshot = internal.Snapshot{}
		case err != nil:
			return fmt.Errorf("failed to load chats: %w", err)
		}

		before, beforeActive := rawCounts(kv)
		dropped := before - len(snapshot.Chats)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Chats kept: %d, dropped: %d\n", len(snapshot.Chats), dropped)
		if beforeActive != "" && snapshot.ActiveID == "" {
			fmt.Fprintf(out, "Active chat %s no longer exists and was cleared\n", beforeActive)
		}

		if repairDryRun {
			fmt.Fprintln(out, "Dry run: nothing written")
			return nil
		}
		if err := snapshots.Save(snapshot); err != nil {
			return fmt.Errorf("failed to save chats: %w", err)
		}
		internal.LogInfo("Repaired storage at %s", cfg.Storage.Path)
		fmt.Fprintln(out, successStyle.Render("✅ Storage rewritten"))
		return nil
	},
}

// rawCounts reports how many chats and which active ID are stored before
// normalization; undecodable data counts as zero
func rawCounts(kv internal.KeyValueStore) (int, string) {
	var chats []json.RawMessage
	if raw, ok, err := kv.Get(internal.ChatsKey); err == nil && ok {
		_ = json.Unmarshal([]byte(raw), &chats)
	}
	active, ok, err := kv.Get(internal.ActiveChatKey)
	if err != nil || !ok || active == "null" {
		active = ""
	}
	return len(chats), active
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().BoolVar(&repairReset, "reset", false, "Replace unreadable saved chats with an empty list")
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "Report what would change without writing")
}
