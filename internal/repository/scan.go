package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/emilianohg/jobtracker/internal/models"
)

// timeColumn scans a DATETIME column. The driver hands back time.Time when
// it can see the declared type and raw text when it cannot (aggregates,
// expressions), so both are accepted.
type timeColumn struct {
	dest *time.Time
}

func (c timeColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c.dest = time.Time{}
	case time.Time:
		*c.dest = v.UTC()
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (c timeColumn) parse(s string) error {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*c.dest = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

// dateColumn scans applied_date into its YYYY-MM-DD text form.
type dateColumn struct {
	dest *string
}

func (c dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c.dest = ""
	case time.Time:
		*c.dest = v.UTC().Format(models.DateLayout)
	case string:
		*c.dest = truncateDate(v)
	case []byte:
		*c.dest = truncateDate(string(v))
	default:
		return fmt.Errorf("unsupported date type %T", src)
	}
	return nil
}

func truncateDate(s string) string {
	if len(s) >= len(models.DateLayout) {
		return s[:len(models.DateLayout)]
	}
	return s
}
