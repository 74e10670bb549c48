package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Read-only roster dump: channels, memberships and messages straight from
// the store, without going through a running server.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "channel:", "Prefix to scan (channel:, ucb:, msg:, user:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Green.Printf("Scanning %q under %s\n\n", *prefix, *dbPath)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Timestamp", "Entity ID", "Detail", "Flags"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()

			// Secondary index rows duplicate the primary payload
			if strings.HasPrefix(string(item.Key()), "idx:") && !strings.HasPrefix(*prefix, "idx:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				var fields map[string]any
				if err := json.Unmarshal(v, &fields); err != nil {
					// Log the row and keep scanning instead of stopping the whole dump
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				table.Append(toRow(string(item.Key()), fields))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func toRow(key string, fields map[string]any) []string {
	kind := "RAW"
	detail := ""
	timestamp := "--:--:--"
	entityID := "--------"
	var flags []string

	if k, ok := fields["kind"].(string); ok {
		kind = strings.ToUpper(k)
	}
	if name, ok := fields["name"].(string); ok {
		detail = name
	}
	if role, ok := fields["role"].(string); ok {
		kind = "UCB"
		detail = role
	}
	if content, ok := fields["content"].(string); ok {
		kind = "MSG"
		detail = content
	}
	if email, ok := fields["email"].(string); ok {
		kind = "USER"
		detail = email
	}
	if id, ok := fields["id"].(string); ok && len(id) > 8 {
		entityID = id[:8]
	}
	for _, candidate := range []string{"created_at", "joined_at", "at"} {
		if nanos, ok := fields[candidate].(float64); ok {
			timestamp = time.Unix(0, int64(nanos)).Format("15:04:05")
		}
	}
	if banned, ok := fields["is_banned"].(bool); ok && banned {
		flags = append(flags, "banned")
	}
	if muted, ok := fields["is_muted"].(bool); ok && muted {
		flags = append(flags, "muted")
	}

	return []string{key, kind, timestamp, entityID, detail, strings.Join(flags, " ")}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
