// Viewer is a read-only inspection tool for the relay database.
// It dumps users, groups or messages as a table without disturbing a
// running server (lock guard bypassed, read-only mode).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"chatter/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/chatter", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (user:, group:, msg:)")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	title := color.New(color.BgBlack, color.FgGreen).Render(fmt.Sprintf("Scanning %q", *prefix))
	fmt.Println(title)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headersFor(*prefix))
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()

			// Secondary index keys hold no payload worth printing
			if strings.HasPrefix(string(item.Key()), "user_email:") ||
				strings.HasPrefix(string(item.Key()), "group_member:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				row, err := rowFor(*prefix, string(item.Key()), v)
				if err != nil {
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
}

func headersFor(prefix string) []string {
	switch {
	case strings.HasPrefix(prefix, "user"):
		return []string{"ID", "Name", "Email", "Created"}
	case strings.HasPrefix(prefix, "group"):
		return []string{"ID", "Name", "Members", "Created By", "Created"}
	default:
		return []string{"Key", "From", "To/Group", "Lang", "Content", "At"}
	}
}

func rowFor(prefix, key string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(prefix, "user"):
		var u repositories.User
		if err := json.Unmarshal(value, &u); err != nil {
			return nil, err
		}
		return []string{shorten(u.ID), u.Name, u.Email, u.CreatedAt.Format("2006-01-02 15:04")}, nil
	case strings.HasPrefix(prefix, "group"):
		var g repositories.DiskGroup
		if err := json.Unmarshal(value, &g); err != nil {
			return nil, err
		}
		return []string{shorten(g.ID), g.Name, strings.Join(g.Members, ","),
			shorten(g.CreatedBy), g.CreatedAt.Format("2006-01-02 15:04")}, nil
	default:
		var m repositories.DiskMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, err
		}
		target := m.To
		if target == "" {
			target = m.Group
		}
		return []string{shorten(key), shorten(m.From), shorten(target),
			m.Lang, m.Content, m.At.Format("15:04:05")}, nil
	}
}

// shorten keeps the first characters of long ids for readability.
func shorten(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
