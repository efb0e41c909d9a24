package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hope-pey/chat-bot/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat     string
	inspectSampleRows int
)

// inspectEntry is one raw key in the json report
type inspectEntry struct {
	Key   string `json:"key"`
	Bytes int    `json:"bytes"`
	Chats *int   `json:"chats,omitempty"`
	Value string `json:"value"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect raw storage contents",
	Long: `Inspect the raw contents of chat storage.

For SQLite storage this shows:
  • Database schema (tables, columns, types)
  • Row counts
  • Sample rows from each table

For the file and memory backends the stored keys are listed instead.

Examples:
  chat-bot inspect                                 # Inspect configured storage
  chat-bot inspect /path/to/chats.db               # Inspect specific database
  chat-bot inspect --format json                   # Raw keys as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, path := cfg.Storage.Backend, cfg.Storage.Path
		if len(args) > 0 {
			backend, path = internal.BackendSQLite, args[0]
		}
		out := cmd.OutOrStdout()

		switch inspectFormat {
		case "json":
			return inspectKeysJSON(out, backend, path)
		case "text", "":
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}

		if backend != internal.BackendSQLite {
			return inspectKeys(out, backend, path)
		}
		fmt.Fprintf(out, "📊 Inspecting storage: %s\n\n", path)
		return inspectDatabase(out, path)
	},
}

func readRawEntries(backend, path string) ([]inspectEntry, error) {
	kv, err := internal.OpenKeyValueStore(backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = kv.Close() }()

	var pairs []internal.KeyValuePair
	if sqlite, ok := kv.(*internal.SQLiteStore); ok {
		if pairs, err = sqlite.QueryKV("%"); err != nil {
			return nil, err
		}
	} else {
		for _, key := range []string{internal.ChatsKey, internal.ActiveChatKey} {
			value, ok, err := kv.Get(key)
			if err != nil {
				return nil, err
			}
			if ok {
				pairs = append(pairs, internal.KeyValuePair{Key: key, Value: value})
			}
		}
	}

	entries := make([]inspectEntry, 0, len(pairs))
	for _, pair := range pairs {
		entry := inspectEntry{Key: pair.Key, Bytes: len(pair.Value), Value: pair.Value}
		if pair.Key == internal.ChatsKey {
			var chats []json.RawMessage
			if json.Unmarshal([]byte(pair.Value), &chats) == nil {
				n := len(chats)
				entry.Chats = &n
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func inspectKeysJSON(out io.Writer, backend, path string) error {
	entries, err := readRawEntries(backend, path)
	if err != nil {
		return err
	}
	report := struct {
		Backend string         `json:"backend"`
		Path    string         `json:"path,omitempty"`
		Entries []inspectEntry `json:"entries"`
	}{Backend: backend, Path: path, Entries: entries}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func inspectKeys(out io.Writer, backend, path string) error {
	entries, err := readRawEntries(backend, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "📋 Backend: %s\n", backend)
	if path != "" {
		fmt.Fprintf(out, "📁 Path: %s\n", path)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "⚠️  No keys stored")
		return nil
	}
	fmt.Fprintf(out, "📊 Found %d key(s)\n\n", len(entries))
	for _, entry := range entries {
		fmt.Fprintf(out, "  • %s: %d bytes", entry.Key, entry.Bytes)
		if entry.Chats != nil {
			fmt.Fprintf(out, " (%d chats)", *entry.Chats)
		} else if entry.Key == internal.ChatsKey {
			fmt.Fprint(out, " (not valid JSON)")
		}
		fmt.Fprintln(out)
		if inspectSampleRows > 0 {
			fmt.Fprintf(out, "    %s\n", truncateValue(entry.Value))
		}
	}
	return nil
}

func inspectDatabase(out io.Writer, dbPath string) error {
	db, err := internal.OpenDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	tables, err := getTables(db)
	if err != nil {
		return fmt.Errorf("failed to get tables: %w", err)
	}

	if len(tables) == 0 {
		fmt.Fprintln(out, "⚠️  No tables found in database")
		return nil
	}

	fmt.Fprintf(out, "📋 Database: %s\n", dbPath)
	fmt.Fprintf(out, "📊 Found %d table(s)\n\n", len(tables))

	for _, tableName := range tables {
		if err := inspectTable(out, db, tableName); err != nil {
			fmt.Fprintf(out, "⚠️  Error inspecting table %s: %v\n", tableName, err)
			continue
		}
		fmt.Fprintln(out)
	}

	return nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func inspectTable(out io.Writer, db *sql.DB, tableName string) error {
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(out, "📦 Table: %s\n", tableName)
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	var rowCount int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", tableName)).Scan(&rowCount); err != nil {
		return fmt.Errorf("failed to get row count: %w", err)
	}
	fmt.Fprintf(out, "📊 Rows: %d\n\n", rowCount)

	columns, err := getTableSchema(db, tableName)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}

	fmt.Fprintf(out, "📐 Schema:\n")
	for _, col := range columns {
		pk := ""
		if col.PrimaryKey {
			pk = " [PRIMARY KEY]"
		}
		notNull := ""
		if col.NotNull {
			notNull = " NOT NULL"
		}
		fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
	}
	fmt.Fprintln(out)

	if rowCount > 0 && inspectSampleRows > 0 {
		if err := showSampleData(out, db, tableName, columns, inspectSampleRows); err != nil {
			fmt.Fprintf(out, "⚠️  Error showing sample data: %v\n", err)
		}
	}

	return nil
}

type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func getTableSchema(db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func showSampleData(out io.Writer, db *sql.DB, tableName string, columns []ColumnInfo, limit int) error {
	if len(columns) == 0 {
		return nil
	}

	colNames := make([]string, len(columns))
	for i, col := range columns {
		colNames[i] = fmt.Sprintf("%q", col.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %q LIMIT %d", strings.Join(colNames, ", "), tableName, limit)
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	fmt.Fprintf(out, "📄 Sample Data (first %d rows):\n", limit)
	rowNum := 0
	for rows.Next() {
		rowNum++
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			fmt.Fprintf(out, "  ⚠️  Row %d: error scanning: %v\n", rowNum, err)
			continue
		}

		fmt.Fprintf(out, "\n  Row %d:\n", rowNum)
		for i, col := range columns {
			valStr := "<NULL>"
			switch val := values[i].(type) {
			case nil:
			case []byte:
				valStr = truncateValue(string(val))
			default:
				valStr = truncateValue(fmt.Sprintf("%v", val))
			}
			fmt.Fprintf(out, "    %s: %s\n", col.Name, valStr)
		}
	}

	return rows.Err()
}

// truncateValue shortens long or multi-line values for display
func truncateValue(s string) string {
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if first, _, found := strings.Cut(s, "\n"); found {
		s = first + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show")
}
