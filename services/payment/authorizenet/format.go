package authorizenet

import (
	"fmt"
	"strconv"
	"strings"
)

// maskPrefix is the literal the gateway uses on masked card, routing and
// account numbers. Masked values are always the prefix plus the last four
// digits, no separator.
const maskPrefix = "XXXX"

// FormatAmount converts a minor-unit integer amount to the gateway's
// two-decimal string form, e.g. 2550 -> "25.50".
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

// FormatExpiration renders an expiration date as "YYYY-MM" with a
// zero-padded month.
func FormatExpiration(year, month int) string {
	if month > 0 && month < 10 {
		return fmt.Sprintf("%d-0%d", year, month)
	}
	return fmt.Sprintf("%d-%d", year, month)
}

// formatExpirationValue renders expiration parts that may be masked
// strings ("XXXX"/"XX") or numbers, padding numeric months below ten.
func formatExpirationValue(year, month any) string {
	if m, ok := asInt(month); ok {
		if m > 0 && m < 10 {
			return fmt.Sprintf("%s-0%d", stringify(year), m)
		}
		return fmt.Sprintf("%s-%d", stringify(year), m)
	}
	return fmt.Sprintf("%s-%s", stringify(year), stringify(month))
}

func maskNumber(last4 string) string {
	return maskPrefix + last4
}

func isMasked(s string) bool {
	return strings.HasSuffix(s, maskPrefix)
}

func lastFour(s string) string {
	if len(s) < 4 {
		return s
	}
	return s[len(s)-4:]
}

// splitName splits a combined "first last" name on spaces. A name with no
// space has no last name; multi-word surnames keep only the second token.
func splitName(name string) (first, last string) {
	parts := strings.Split(name, " ")
	first = parts[0]
	if len(parts) > 1 {
		last = parts[1]
	}
	return first, last
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	return true
}

// toBoolean coerces loosely typed metadata flags to a bool, nil stays nil.
func toBoolean(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(t) {
		case "true", "1", "yes":
			return true, nil
		default:
			return false, nil
		}
	default:
		return truthy(v), nil
	}
}
