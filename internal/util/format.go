package util

import (
	"fmt"
	"strings"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count the way the uploaded-file row shows it.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	n := float64(bytes)
	i := 0
	for n >= 1024 && i < len(sizeUnits)-1 {
		n /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", bytes, sizeUnits[0])
	}
	return fmt.Sprintf("%.2f %s", n, sizeUnits[i])
}

// CountWords counts whitespace-separated words; used by the context field's
// live counter.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
