package daycare

import (
	"bufio"
	"io"
	"strings"
)

// PresenceRow is one exported presence line, with references resolved to names.
type PresenceRow struct {
	Date       string
	Child      string
	Class      string
	Status     string
	RecordedBy string
	Note       string
}

var PresenceCSVHeader = []string{"date", "child", "class", "status", "recorded_by", "note"}

func (r PresenceRow) Fields() []string {
	return []string{r.Date, r.Child, r.Class, r.Status, r.RecordedBy, r.Note}
}

// PresenceRows resolves the child and class names of presences. Unknown references are left blank.
func PresenceRows(presences []Presence, children []Child, classes []Class, recorders map[int]string) []PresenceRow {
	childByID := make(map[int]Child, len(children))
	for _, c := range children {
		childByID[c.ID] = c
	}
	classNames := make(map[int]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	rows := make([]PresenceRow, 0, len(presences))
	for _, p := range presences {
		row := PresenceRow{Date: p.Date, Status: p.Status, Note: p.Note.String}
		if c, ok := childByID[p.ChildID]; ok {
			row.Child = c.FullName()
			if c.ClassID.Valid {
				row.Class = classNames[c.ClassID.Int]
			}
		}
		if p.RecordedBy.Valid {
			row.RecordedBy = recorders[p.RecordedBy.Int]
		}
		rows = append(rows, row)
	}
	return rows
}

// WritePresencesCSV writes the header and one record per row: len(rows)+1 records in total.
func WritePresencesCSV(w io.Writer, rows []PresenceRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Fields())
	}
	return WriteCSV(w, PresenceCSVHeader, records)
}

// WriteCSV writes RFC 4180 records where every field is quoted, inner quotes are doubled
// and records end with CRLF. Line breaks inside a field are kept within its quotes, so a
// record spans several physical lines when a field (typically a note) holds one; CSV readers
// still see exactly one record per row.
func WriteCSV(w io.Writer, header []string, records [][]string) error {
	bw := bufio.NewWriter(w)
	if err := writeRecord(bw, header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writeRecord(bw, rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// PresencesFilename names the export of a given day.
func PresencesFilename(date string) string {
	return "presences-" + date + ".csv"
}
