package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/hope-pey/chat-bot/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(chat *internal.Chat, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// FileName returns the export file name for a chat, e.g. 0190abcd.md
func FileName(chat *internal.Chat, e Exporter) string {
	return fmt.Sprintf("%s.%s", chat.ID, e.Extension())
}
