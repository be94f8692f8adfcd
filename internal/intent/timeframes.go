package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"finsight/internal/models"
)

// Timeframe parsing regexes, compiled once.
var (
	// "last 3 months", "past 2 weeks"
	relativeRe = regexp.MustCompile(`(?i)\b(?:last|past)\s+(\d{1,3})\s*(day|days|week|weeks|month|months|year|years)\b`)
	// "past week", "last year" (no number)
	singleUnitRe = regexp.MustCompile(`(?i)\b(?:last|past)\s*(day|week|month|year)\b`)
	// compact tokens: 1d, 5d, 1w, 1m, 3m, 6m, 9m, 1y, 2y, 5y
	compactRe = regexp.MustCompile(`(?i)\b(1d|5d|1w|1m|3m|6m|9m|1y|2y|5y)\b`)
	// ytd / year to date
	ytdRe = regexp.MustCompile(`(?i)\b(?:ytd|year\s*to\s*date)\b`)
	// "from 2024-01-15 to 2024-07-01", "2024-01-15 - 2024-07-01"
	fromToRe = regexp.MustCompile(`(?i)\b(?:from\s+)?(\d{4}-\d{2}-\d{2})\s*(?:to|-|–)\s*(\d{4}-\d{2}-\d{2})\b`)
	// "since 2024-01-15", "from 2024-01-15"
	sinceRe = regexp.MustCompile(`(?i)\b(?:since|from)\s+(\d{4}-\d{2}-\d{2})\b`)
)

const dateLayout = "2006-01-02"

// ResolveTimeframe extracts a (start, end, interval) window from free-form
// text, anchored at today. Resolution order, first match wins:
//  1. absolute ranges ("from 2024-01-15 to 2024-07-01", "since 2024-01-15")
//  2. YTD / year to date
//  3. relative phrases ("last 3 months", "past week")
//  4. compact tokens ("3m", "1y", "5y")
//  5. default: last 6 months
//
// Reversed dates are swapped. The interval is chosen from the window
// length: over 5 years monthly, over 2 years weekly, otherwise daily.
func ResolveTimeframe(text string, today time.Time) (start, end time.Time, interval models.Interval) {
	today = truncateDay(today)

	start, end = parseAbsolute(text, today)
	if start.IsZero() && end.IsZero() {
		start, end = parseYTD(text, today)
	}
	if start.IsZero() && end.IsZero() {
		start, end = parseRelative(text, today)
	}
	if start.IsZero() && end.IsZero() {
		start, end = parseCompact(text, today)
	}
	if start.IsZero() && end.IsZero() {
		start = today.AddDate(0, -6, 0)
		end = today
	}

	if !start.IsZero() && end.IsZero() {
		end = today
	}
	if !end.IsZero() && start.IsZero() {
		start = end.AddDate(0, -6, 0)
	}
	if start.After(end) {
		start, end = end, start
	}

	return start, end, inferInterval(start, end)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// inferInterval picks a sampling interval from the window length.
func inferInterval(start, end time.Time) models.Interval {
	days := int(end.Sub(start).Hours() / 24)
	switch {
	case days > 365*5:
		return models.IntervalMonthly
	case days > 365*2:
		return models.IntervalWeekly
	default:
		return models.IntervalDaily
	}
}

func parseAbsolute(text string, today time.Time) (time.Time, time.Time) {
	if m := fromToRe.FindStringSubmatch(text); m != nil {
		s, errS := time.Parse(dateLayout, m[1])
		e, errE := time.Parse(dateLayout, m[2])
		if errS == nil && errE == nil {
			return s, e
		}
	}
	if m := sinceRe.FindStringSubmatch(text); m != nil {
		if s, err := time.Parse(dateLayout, m[1]); err == nil {
			return s, today
		}
	}
	return time.Time{}, time.Time{}
}

func parseYTD(text string, today time.Time) (time.Time, time.Time) {
	if ytdRe.MatchString(text) {
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today
	}
	return time.Time{}, time.Time{}
}

func parseRelative(text string, today time.Time) (time.Time, time.Time) {
	if m := relativeRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return backOff(today, strings.ToLower(m[2]), n), today
	}
	if m := singleUnitRe.FindStringSubmatch(text); m != nil {
		return backOff(today, strings.ToLower(m[1]), 1), today
	}
	return time.Time{}, time.Time{}
}

func parseCompact(text string, today time.Time) (time.Time, time.Time) {
	m := compactRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}
	}
	token := strings.ToLower(m[1])
	n, _ := strconv.Atoi(token[:len(token)-1])
	switch token[len(token)-1] {
	case 'd':
		return today.AddDate(0, 0, -n), today
	case 'w':
		return today.AddDate(0, 0, -7*n), today
	case 'm':
		return today.AddDate(0, -n, 0), today
	case 'y':
		return today.AddDate(-n, 0, 0), today
	}
	return time.Time{}, time.Time{}
}

func backOff(today time.Time, unit string, n int) time.Time {
	switch {
	case strings.HasPrefix(unit, "day"):
		return today.AddDate(0, 0, -n)
	case strings.HasPrefix(unit, "week"):
		return today.AddDate(0, 0, -7*n)
	case strings.HasPrefix(unit, "month"):
		return today.AddDate(0, -n, 0)
	default:
		return today.AddDate(-n, 0, 0)
	}
}
