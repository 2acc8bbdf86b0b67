package bcf

import (
	"strconv"
	"strings"
	"time"
)

const displayDateLayout = "02-01-2006 15:04:05"

// FormatDate formats a date for display, or "-" when it is unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(displayDateLayout)
}

// FormatLabels joins topic labels with spaces.
func FormatLabels(labels []string) string {
	return strings.TrimSpace(strings.Join(labels, " "))
}

// ViewpointSummary describes a viewpoint count the way the topic details do.
func ViewpointSummary(n int) string {
	switch {
	case n <= 0:
		return "None"
	case n == 1:
		return "1 viewpoint"
	default:
		return strconv.Itoa(n) + " viewpoints"
	}
}
