package output

import (
	"io"
	"strconv"
	"time"

	"github.com/agentstation/wordblox/pkg/storage"
	"github.com/agentstation/wordblox/pkg/sync"
)

// WordsTable renders word rows.
func WordsTable(words []storage.Word) Data {
	rows := make([][]string, 0, len(words))
	for _, w := range words {
		rows = append(rows, []string{
			strconv.FormatInt(w.ID, 10),
			w.Tag,
			w.Text,
			w.Details,
			w.UpdatedAt.Format(time.DateTime),
		})
	}
	return Data{
		Headers:         []string{"ID", "Tag", "Word", "Details", HeaderName("updated_at")},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
}

// DomainsTable renders domains.
func DomainsTable(domains []storage.Domain) Data {
	rows := make([][]string, 0, len(domains))
	for _, d := range domains {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.URL,
			d.CreatedAt.Format(time.DateTime),
		})
	}
	return Data{
		Headers:         []string{"ID", "URL", HeaderName("created_at")},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

// SyncTable renders the counters of a sync.
func SyncTable(r *sync.Result) Data {
	itoa := strconv.Itoa
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", r.Domain},
			{"Policy", r.Policy.String()},
			{HeaderName("tags_created"), itoa(r.TagsCreated)},
			{HeaderName("words_created"), itoa(r.WordsCreated)},
			{HeaderName("words_updated"), itoa(r.WordsUpdated)},
			{HeaderName("words_deleted"), itoa(r.WordsDeleted)},
			{"Unchanged", itoa(r.Unchanged)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// Print writes value in format. Table output renders table; the other
// formats encode value itself.
func Print(w io.Writer, format Format, value any, table Data) error {
	if format == FormatTable || format == "" {
		return NewFormatter(FormatTable).Format(w, table)
	}
	return NewFormatter(format).Format(w, value)
}
