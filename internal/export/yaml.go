package export

import (
	"io"

	"github.com/hope-pey/chat-bot/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports chats in YAML format
type YAMLExporter struct{}

// Export exports a chat to YAML format
func (e *YAMLExporter) Export(chat *internal.Chat, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(chat)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
