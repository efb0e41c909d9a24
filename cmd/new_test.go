package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/hope-pey/chat-bot/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	path, storeArgs := sampleStore(t)

	out, err := executeCommand(t, withStore(storeArgs, "new")...)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	snapshot := loadFileSnapshot(t, path)
	require.Len(t, snapshot.Chats, 3)
	assert.Equal(t, id, snapshot.Chats[0].ID, "new chats go first")
	assert.Equal(t, internal.DefaultChatTitle, snapshot.Chats[0].Title)
	assert.Equal(t, id, snapshot.ActiveID)
}

func TestSelectCommand(t *testing.T) {
	path, storeArgs := sampleStore(t)

	out, err := executeCommand(t, withStore(storeArgs, "select", "chat-b")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Active chat: Second chat")
	assert.Equal(t, "chat-b", loadFileSnapshot(t, path).ActiveID)

	_, err = executeCommand(t, withStore(storeArgs, "select", "missing")...)
	assert.ErrorIs(t, err, internal.ErrNotFound)
	assert.Equal(t, "chat-b", loadFileSnapshot(t, path).ActiveID)
}

func TestRenameCommand(t *testing.T) {
	path, storeArgs := sampleStore(t)

	out, err := executeCommand(t, withStore(storeArgs, "rename", "chat-b", "Trip", "to", "Rome")...)
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed to "Trip to Rome"`)

	i := loadFileSnapshot(t, path).FindChat("chat-b")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Trip to Rome", loadFileSnapshot(t, path).Chats[i].Title)

	_, err = executeCommand(t, withStore(storeArgs, "rename", "chat-b")...)
	require.NoError(t, err)
	assert.Equal(t, internal.UntitledChatTitle, loadFileSnapshot(t, path).Chats[i].Title)
}

func TestUpdateCommands_RefuseCorruptStorage(t *testing.T) {
	path := writeDocument(t, map[string]string{internal.ChatsKey: "{broken"})

	for _, args := range [][]string{
		{"new"},
		{"select", "x"},
		{"rename", "x", "y"},
		{"delete", "x", "--yes"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := executeCommand(t, append(args, "--backend", "file", "--storage", path)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "repair")
		})
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "{broken")
}
