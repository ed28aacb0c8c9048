package helpers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	slugStripPattern  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacePattern  = regexp.MustCompile(`\s+`)
	slugHyphenPattern = regexp.MustCompile(`-+`)

	clock24Pattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	clock12Pattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Date-only layouts keep the calendar day as written.
var dateOnlyLayouts = []string{
	DateLayout,
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
}

// Timestamp layouts are converted to UTC before the day is taken.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// DeriveSlug turns a title into a lowercase, hyphen separated, URL-safe slug.
func DeriveSlug(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = slugStripPattern.ReplaceAllString(s, "")
	s = slugSpacePattern.ReplaceAllString(s, "-")
	s = slugHyphenPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeDate parses a calendar date in any supported layout and returns YYYY-MM-DD.
func NormalizeDate(input string) (string, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return "", fmt.Errorf("invalid date format: %q", input)
	}

	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, value); err == nil && weekdayMatches(layout, value, t) {
			return t.Format(DateLayout), nil
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil && weekdayMatches(layout, value, t) {
			return t.UTC().Format(DateLayout), nil
		}
	}

	return "", fmt.Errorf("invalid date format: %q", input)
}

// weekdayMatches rejects a stated weekday that disagrees with the date;
// time.Parse reads the name but never checks it.
func weekdayMatches(layout, value string, t time.Time) bool {
	if !strings.HasPrefix(layout, "Mon") {
		return true
	}
	name, _, _ := strings.Cut(value, ",")
	day := t.Weekday().String()
	return strings.EqualFold(name, day) || strings.EqualFold(name, day[:3])
}

// NormalizeTime accepts HH:MM (24-hour) or HH:MM AM/PM and returns zero padded 24-hour HH:MM.
func NormalizeTime(input string) (string, error) {
	value := strings.TrimSpace(input)

	if m := clock24Pattern.FindStringSubmatch(value); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h > 23 || mm > 59 {
			return "", fmt.Errorf("invalid time format: %q", input)
		}
		return fmt.Sprintf("%02d:%02d", h, mm), nil
	}

	if m := clock12Pattern.FindStringSubmatch(value); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		if h < 1 || h > 12 || mm > 59 {
			return "", fmt.Errorf("invalid time format: %q", input)
		}

		switch strings.ToUpper(m[3]) {
		case "PM":
			if h != 12 {
				h += 12
			}
		case "AM":
			if h == 12 {
				h = 0
			}
		}
		return fmt.Sprintf("%02d:%02d", h, mm), nil
	}

	return "", fmt.Errorf("invalid time format: %q, expected HH:MM or HH:MM AM/PM", input)
}

// ValidateEmail is a deliberately loose shape check: local@domain.tld with no spaces.
func ValidateEmail(input string) bool {
	return emailPattern.MatchString(input)
}

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

func TrimList(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = StringTrim(item)
	}
	return out
}

func RemoveDuplicates(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
