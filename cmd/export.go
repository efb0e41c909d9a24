package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hope-pey/chat-bot/internal"
	"github.com/hope-pey/chat-bot/internal/export"
	"github.com/spf13/cobra"
)

var (
	format       string
	outputDir    string
	exportChatID string
	exportSearch string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chats to files",
	Long: `Export chats to various formats (jsonl, md, yaml, json), one file per chat.

You can export all chats, only those whose title matches --search, or a single
chat by ID. Use 'chat-bot list' to see available chat IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		store, closeStore, err := openStore(nil)
		if err != nil {
			return err
		}
		defer closeStore()

		chats := store.Chats()
		if exportSearch != "" {
			chats = internal.Project(chats, exportSearch).Filter(chats)
		}
		if exportChatID != "" {
			id, err := store.ResolveID(exportChatID)
			if err != nil {
				return fmt.Errorf("%w (use 'chat-bot list' to see available chats)", err)
			}
			chat, _ := store.Chat(id)
			chats = []internal.Chat{chat}
		}
		if len(chats) == 0 {
			internal.PrintInfo("No chats to export")
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		var exported int
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d chat(s) to %s", len(chats), outputDir), func() error {
			for i := range chats {
				if err := exportChat(exporter, &chats[i]); err != nil {
					internal.LogError("%v", err)
					continue
				}
				exported++
			}
			return nil
		})
		if err != nil {
			return err
		}
		if exported < len(chats) {
			return fmt.Errorf("exported %d of %d chat(s)", exported, len(chats))
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d chat(s) exported to %s", exported, outputDir))
		return nil
	},
}

func exportChat(exporter export.Exporter, chat *internal.Chat) error {
	path := filepath.Join(outputDir, export.FileName(chat, exporter))

	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := exporter.Export(chat, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: format, Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&exportChatID, "chat-id", "", "Export a specific chat by ID")
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Only export chats whose title contains this text")
}
