package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberingType selects how quote codes are generated.
type NumberingType string

const (
	// NumberingDate yields PREFIX+MMDDYY+n, n restarting at 1 every day.
	NumberingDate NumberingType = "date"
	// NumberingSequential yields PREFIX+000001 from a global counter.
	NumberingSequential NumberingType = "sequential"
)

// DatePart renders the MMDDYY stamp of a date-based code.
func DatePart(now time.Time) string {
	return now.Format("010206")
}

// FormatDateQuoteNumber builds a date-based code.
func FormatDateQuoteNumber(prefix string, now time.Time, n int) string {
	return fmt.Sprintf("%s%s%d", prefix, DatePart(now), n)
}

// FormatSequentialQuoteNumber builds a sequential code, zero-padded to 6 digits.
func FormatSequentialQuoteNumber(prefix string, counter int) string {
	return fmt.Sprintf("%s%06d", prefix, counter)
}

// NextDailySequence returns the next day counter given the codes already
// issued with the same PREFIX+MMDDYY stem. Codes whose remainder is not a
// number are ignored.
func NextDailySequence(stem string, existing []string) int {
	highest := 0
	for _, code := range existing {
		rest, ok := strings.CutPrefix(code, stem)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

// FallbackQuoteNumber is used when numbering cannot consult storage.
func FallbackQuoteNumber(now time.Time) string {
	return fmt.Sprintf("PROP%d", now.UnixMilli())
}

// DraftQuoteCode identifies a draft saved without a code.
func DraftQuoteCode() string {
	return "RASCUNHO-" + strings.ToUpper(uuid.NewString()[:8])
}
