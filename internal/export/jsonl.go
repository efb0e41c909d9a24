package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hope-pey/chat-bot/internal"
)

// JSONLExporter exports chats in JSONL format (one message per line)
type JSONLExporter struct{}

// Export writes one JSON object per message
func (e *JSONLExporter) Export(chat *internal.Chat, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range chat.Messages {
		obj := map[string]interface{}{
			"chatId":  chat.ID,
			"id":      msg.ID,
			"role":    msg.Role,
			"content": msg.Content,
		}
		if !msg.Timestamp.IsZero() {
			obj["timestamp"] = msg.Timestamp.UTC().Format(time.RFC3339Nano)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
