package helpers

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"React Summit 2025", "react-summit-2025"},
		{"  React   Summit 2025!! ", "react-summit-2025"},
		{"Go & Rust: Systems Day", "go-rust-systems-day"},
		{"--Leading and trailing--", "leading-and-trailing"},
		{"Next.js Conf", "nextjs-conf"},
		{"snake_case_meetup", "snakecasemeetup"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"Café Tech", "caf-tech"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSlug(tt.title))
		})
	}
}

func TestDeriveSlug_ShapeAndIdempotence(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	titles := []string{
		"React Summit 2025",
		"AI / ML -- Night",
		"  DevOps   Days  Accra ",
		"KubeCon + CloudNativeCon 2026",
	}
	for _, title := range titles {
		slug := DeriveSlug(title)
		assert.Regexp(t, shape, slug, title)
		assert.Equal(t, slug, DeriveSlug(slug), "slug of a slug must not change")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-11-15", "2025-11-15"},
		{"2025-1-5", "2025-01-05"},
		{"2025/11/15", "2025-11-15"},
		{"11/15/2025", "2025-11-15"},
		{"November 15, 2025", "2025-11-15"},
		{"Nov 15, 2025", "2025-11-15"},
		{"15 November 2025", "2025-11-15"},
		{"  2025-11-15  ", "2025-11-15"},
		{"2025-11-15T23:30:00Z", "2025-11-15"},
		{"2025-11-15T23:30:00-05:00", "2025-11-16"},
		{"2025-11-15 08:00:00", "2025-11-15"},
		{"Saturday, November 15, 2025", "2025-11-15"},
		{"Sat, Nov 15, 2025", "2025-11-15"},
		{"Sat, 15 Nov 2025 10:00:00 GMT", "2025-11-15"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "2025-13-01", "2025-02-30", "tomorrow",
		"Monday, November 15, 2025", "Mon, Nov 15, 2025", "Fri, 15 Nov 2025 10:00:00 GMT"} {
		t.Run(input, func(t *testing.T) {
			_, err := NormalizeDate(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid date format")
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"09:00", "09:00"},
		{"9:00", "09:00"},
		{"23:59", "23:59"},
		{"00:00", "00:00"},
		{"9:00 AM", "09:00"},
		{"9:00am", "09:00"},
		{"12:00 AM", "00:00"},
		{"12:15 PM", "12:15"},
		{"2:30 PM", "14:30"},
		{"11:59 pm", "23:59"},
		{" 10:05 ", "10:05"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTime_Invalid(t *testing.T) {
	for _, input := range []string{"25:00", "12:60", "13:00 PM", "0:30 AM", "noon", "9", "9:0", ""} {
		t.Run(input, func(t *testing.T) {
			_, err := NormalizeTime(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid time format")
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	date, err := NormalizeDate("November 15, 2025")
	require.NoError(t, err)
	again, err := NormalizeDate(date)
	require.NoError(t, err)
	assert.Equal(t, date, again)

	clock, err := NormalizeTime("2:30 PM")
	require.NoError(t, err)
	again, err = NormalizeTime(clock)
	require.NoError(t, err)
	assert.Equal(t, clock, again)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"visitor@example.com", "a.b+c@sub.domain.io", "x@y.z"}
	invalid := []string{"", "visitor", "visitor@example", "vis itor@example.com", "@example.com", "visitor@.com "}

	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}

func TestListHelpers(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "a"}, TrimList([]string{" a", "b ", " a "}))
	assert.Equal(t, []string{"react", "go"}, RemoveDuplicates([]string{"react", "go", "react"}))
}
