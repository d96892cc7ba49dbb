package render

import (
	"fmt"
	"regexp"
	"time"
)

// MaxFilenameLength is exclusive
const MaxFilenameLength = 100

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds invoice-<number>-<client>-<YYYY-MM-DD>.pdf. Number and client
// have every non alphanumeric character replaced by a dash, and the client
// segment is shortened first to keep the name under MaxFilenameLength.
func Filename(number, clientName string, date time.Time) string {
	num := nonAlphanumeric.ReplaceAllString(number, "-")
	client := nonAlphanumeric.ReplaceAllString(clientName, "-")
	day := date.Format("2006-01-02")

	// invoice- + - + - + .pdf
	fixed := len("invoice-") + 2 + len(day) + len(".pdf")
	budget := MaxFilenameLength - 1 - fixed

	if len(num)+len(client) > budget {
		client = client[:max(0, budget-len(num))]
	}
	if len(num) > budget {
		num = num[:budget]
	}
	return fmt.Sprintf("invoice-%s-%s-%s.pdf", num, client, day)
}
