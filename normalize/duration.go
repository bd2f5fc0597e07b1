// Package normalize turns the differing number, duration and date formats
// returned by YouTube's upstreams into comparable values.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseDuration converts an ISO-8601 duration such as "PT1H2M3S" to seconds.
// Missing components count as zero and unmatched input yields 0.
func ParseDuration(text string) int {
	m := isoDurationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	return atoi(m[1])*3600 + atoi(m[2])*60 + atoi(m[3])
}

// FormatClock renders seconds as "m:ss".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
