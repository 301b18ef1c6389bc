package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatEntryOrg renders a Record as an Org-mode block with the structured
// facts in a PROPERTIES drawer.
func FormatEntryOrg(r Record) string {
	heading := fmt.Sprintf("** %s %s (%s #%d)", r.Kind, r.Amount.StringFixed(2), shortID(r.AccountID), r.Seq)
	if r.Detail != "" {
		heading = fmt.Sprintf("** %s %s: %s (%s #%d)", r.Kind, r.Detail, r.Amount.StringFixed(2), shortID(r.AccountID), r.Seq)
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ACCOUNT_ID: %s\n", r.AccountID))
	if r.Run != "" {
		b.WriteString(fmt.Sprintf(":RUN: %s\n", r.Run))
	}
	b.WriteString(fmt.Sprintf(":SEQ: %d\n", r.Seq))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", r.Time.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":KIND: %s\n", r.Kind))
	if r.Detail != "" {
		b.WriteString(fmt.Sprintf(":DETAIL: %s\n", r.Detail))
	}
	b.WriteString(fmt.Sprintf(":AMOUNT: %s\n", r.Amount.StringFixed(2)))
	b.WriteString(":END:\n")

	return b.String()
}

// FormatEntriesOrg renders multiple records separated by blank lines.
func FormatEntriesOrg(recs []Record) string {
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatEntryOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
