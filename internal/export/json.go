package export

import (
	"encoding/json"
	"io"

	"github.com/hope-pey/chat-bot/internal"
)

// JSONExporter exports chats in JSON format (pretty-printed)
type JSONExporter struct{}

// Export writes the chat in its persisted JSON shape
func (e *JSONExporter) Export(chat *internal.Chat, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(chat)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
