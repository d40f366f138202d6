package web

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode"

	"fairshare/db/db"
)

// detailSumTolerance absorbs float rounding when checking that exact split
// values sum to the amount, or percentage values to 100.
const detailSumTolerance = 0.01

func IsSecureString(s string) bool {
	allowedSafeSymbols := map[rune]bool{
		'_': true,
		'-': true,
		'.': true,
		'@': true,
		'#': true,
		' ': true,
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if _, ok := allowedSafeSymbols[r]; !ok {
				return false
			}
		}
	}
	return true
}

func VerifyStringRequest(s string) bool {
	if len(s) == 0 {
		return false
	}
	if len(s) > 100 {
		return false
	}
	return IsSecureString(s)
}

func VerifyExpenseRequest(r NewExpenseRequest) bool {
	if !VerifyStringRequest(r.Name) {
		return false
	}
	if r.Amount <= 0 {
		return false
	}
	if r.PaidBy == "" {
		return false
	}
	if len(r.SplitAmong) > 100 {
		return false
	}

	var detailSum float64
	for _, s := range r.SplitAmong {
		if s.Value < 0 {
			return false
		}
		detailSum += s.Value
	}
	switch r.SplitType {
	case db.SplitExact:
		if math.Abs(detailSum-r.Amount) > detailSumTolerance {
			return false
		}
	case db.SplitPercentage:
		if math.Abs(detailSum-100) > detailSumTolerance {
			return false
		}
	}
	return true
}

func VerifySettlementRequest(r NewSettlementRequest) bool {
	if r.Amount <= 0 {
		return false
	}
	if r.From == "" || r.To == "" || r.From == r.To {
		return false
	}
	if r.Note != "" && !VerifyStringRequest(r.Note) {
		return false
	}
	return true
}

// ParseJSTimestampString parses a JavaScript Date.now() string (milliseconds since epoch)
// into a Go time.Time object.
func ParseJSTimestampString(jsTimestampStr string) (time.Time, error) {
	unixMilli, err := strconv.ParseInt(jsTimestampStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp string '%s' to int64: %w", jsTimestampStr, err)
	}

	return time.UnixMilli(unixMilli), nil
}
