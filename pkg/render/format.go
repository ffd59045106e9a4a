package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// FormatCurrency renders an amount as US dollars, e.g. "$1,234.50".
func FormatCurrency(value any) string {
	amount, ok := toFloat(value)
	if !ok {
		return ""
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, grouped.String(), cents%100)
}

// FormatDate renders a timestamp as "March 3rd, 2024".
func FormatDate(value any) string {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return v
		}
		t = parsed
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d%s, %d", t.Month(), t.Day(), ordinal(t.Day()), t.Year())
}

// FormatBool renders a flag as "Yes" or "No".
func FormatBool(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes"
		}
	case string:
		if b, err := strconv.ParseBool(v); err == nil && b {
			return "Yes"
		}
	}
	return "No"
}

// Swatch returns value when it is a CSS hex colour and "" otherwise, so
// user text never reaches a style attribute.
func Swatch(value string) string {
	value = strings.TrimSpace(value)
	if hexColor.MatchString(value) {
		return value
	}
	return ""
}

func ordinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
