package domain

import (
	"strconv"
	"strings"
	"time"
)

// exportHeader is the fixed column order of the alert export.
var exportHeader = []string{"ID", "Zone", "Message", "Severity", "Time", "Acknowledged"}

// ExportHeader returns the export column names in order.
func ExportHeader() []string {
	out := make([]string, len(exportHeader))
	copy(out, exportHeader)
	return out
}

// ExportEscaping selects how field values are written into the export.
type ExportEscaping string

const (
	// EscapingLegacy wraps Zone and Message in quotes and escapes nothing.
	// A field containing a quote or comma corrupts its row.
	EscapingLegacy ExportEscaping = "legacy"
	// EscapingRFC4180 keeps the legacy quoting but doubles embedded quotes
	// and quotes Severity/Time when they contain special characters.
	EscapingRFC4180 ExportEscaping = "rfc4180"
)

// ParseExportEscaping normalizes a configured escaping mode.
func ParseExportEscaping(value string) (ExportEscaping, bool) {
	switch ExportEscaping(strings.ToLower(strings.TrimSpace(value))) {
	case EscapingLegacy:
		return EscapingLegacy, true
	case EscapingRFC4180:
		return EscapingRFC4180, true
	default:
		return "", false
	}
}

// FormatAsDelimitedText renders alerts as comma-separated text in store
// order: a header row, then one row per alert, joined with "\n" and no
// trailing newline. Zone and Message are always wrapped in double quotes
// without escaping.
func FormatAsDelimitedText(alerts []Alert) string {
	return formatRows(alerts, func(s string) string { return `"` + s + `"` }, identity)
}

// FormatAsEscapedText is FormatAsDelimitedText with RFC 4180 escaping:
// embedded quotes are doubled, and Severity/Time are quoted only when they
// contain a delimiter, quote or line break. Output is identical to the
// legacy format for well-behaved input.
func FormatAsEscapedText(alerts []Alert) string {
	return formatRows(alerts, quoteAlways, quoteIfNeeded)
}

// Format renders alerts with the given escaping mode. Unknown modes fall
// back to legacy output.
func Format(alerts []Alert, mode ExportEscaping) string {
	if mode == EscapingRFC4180 {
		return FormatAsEscapedText(alerts)
	}
	return FormatAsDelimitedText(alerts)
}

// ExportFilename returns the download name for a report generated at now,
// e.g. flood_alerts_report_2024-07-30.csv. The date is taken in UTC.
func ExportFilename(now time.Time, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return "flood_alerts_report_" + now.UTC().Format(time.DateOnly) + "." + ext
}

// YesNo renders an acknowledgment flag the way reports show it.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatRows(alerts []Alert, quoted, plain func(string) string) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	for i := range alerts {
		a := &alerts[i]
		b.WriteByte('\n')
		b.WriteString(strconv.FormatInt(a.ID, 10))
		b.WriteByte(',')
		b.WriteString(quoted(a.Zone))
		b.WriteByte(',')
		b.WriteString(quoted(a.Message))
		b.WriteByte(',')
		b.WriteString(plain(string(a.Severity)))
		b.WriteByte(',')
		b.WriteString(plain(a.CreatedAt))
		b.WriteByte(',')
		b.WriteString(YesNo(a.Acknowledged))
	}
	return b.String()
}

func identity(s string) string { return s }

func quoteAlways(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteAlways(s)
	}
	return s
}
