package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hope-pey/chat-bot/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	basic := internal.CreateTestChat("test1", "Greetings")
	empty := internal.CreateTestChatWithMessages("test2", []internal.Message{})

	tests := []struct {
		name string
		chat *internal.Chat
	}{
		{name: "basic chat", chat: &basic},
		{name: "empty chat", chat: &empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &YAMLExporter{}

			if err := exporter.Export(tt.chat, &buf); err != nil {
				t.Fatalf("YAMLExporter.Export() error = %v", err)
			}

			output := buf.String()
			var chat internal.Chat
			if err := yaml.Unmarshal([]byte(output), &chat); err != nil {
				t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, output)
			}
			if chat.ID != tt.chat.ID {
				t.Errorf("decoded ID = %q, want %q", chat.ID, tt.chat.ID)
			}
			if chat.Title != tt.chat.Title {
				t.Errorf("decoded Title = %q, want %q", chat.Title, tt.chat.Title)
			}
			if !strings.Contains(output, "created_at:") {
				t.Errorf("Output should contain created_at, got:\n%s", output)
			}
		})
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if got := exporter.Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
