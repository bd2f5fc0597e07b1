package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var countPattern = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*([KMB])?\b`)

var countMultipliers = map[string]float64{
	"":  1,
	"K": 1e3,
	"M": 1e6,
	"B": 1e9,
}

// ParseCount reads counts like "1,234 views", "12K" or "1.5M likes".
// Text without a number ("No views") yields 0.
func ParseCount(text string) int64 {
	m := countPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}

	num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}

	return int64(math.Round(num * countMultipliers[strings.ToUpper(m[2])]))
}
