// Package intent deterministically resolves a free-text question into
// tickers, a date window, an interval and a compare flag. No model call is
// involved; the same question and anchor date always produce the same
// result.
package intent

import (
	"regexp"
	"strings"
	"time"

	"finsight/internal/errors"
	"finsight/internal/models"
)

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

var comparePattern = regexp.MustCompile(`(?i)\bvs\b|\bversus\b|\bcompare\b`)

// stopwords are uppercase words that look like tickers but never are:
// indicator names, finance jargon and common English words.
var stopwords = map[string]struct{}{}

func init() {
	words := []string{
		"RSI", "MACD", "EMA", "SMA", "BB", "VWAP", "YTD",
		"USD", "EPS", "PE", "ETF", "IPO", "EV", "EBITDA", "AI",
		"AND", "OR", "VS", "V", "THE", "A", "AN",
		"HOW", "WHAT", "WHEN", "WHERE", "WHO", "WHY", "WHICH", "THAT",
		"THIS", "THESE", "THOSE", "ARE", "IS", "WAS", "WERE", "BE", "BEEN",
		"HAVE", "HAS", "HAD", "DO", "DOES", "DID", "WILL", "WOULD", "COULD",
		"SHOULD", "MAY", "MIGHT", "CAN", "MUST", "SHALL",
		"IN", "ON", "AT", "BY", "FOR", "WITH", "FROM", "TO", "OF", "AS",
		"BUT", "IF", "SO", "UP", "OUT", "ALL", "ANY", "SOME", "NO", "NOT",
		"LAST", "PAST", "RECENT", "NOW", "TODAY", "LATE", "EARLY", "NEW", "OLD",
		"GOOD", "BAD", "BIG", "SMALL", "HIGH", "LOW", "LONG", "SHORT",
		"STOCK", "STOCKS", "SHARE", "PRICE", "TREND", "RALLY", "CRASH",
		"LIKE", "ABOUT", "OVER", "UNDER", "BEST", "WORST", "TOP", "SHOW",
		"CHECK", "LOOK", "SEE", "GET", "TAKE", "MAKE", "GIVE", "TELL",
		"MUCH", "MANY", "MORE", "MOST", "LESS", "LEAST", "VERY", "QUITE",
		"JUST", "ONLY", "ALSO", "EVEN", "STILL", "BACK", "DOWN", "AWAY",
		"YEAR", "YEARS", "MONTH", "MONTHS", "WEEK", "WEEKS", "DAY", "DAYS",
		"SINCE", "DOING", "DONE", "WENT", "BEEN",
	}
	for _, w := range words {
		stopwords[w] = struct{}{}
	}
}

// ExtractTickers finds candidate ticker symbols in the question: runs of
// 1-5 uppercase letters, deduplicated in order of appearance. One- and
// two-letter symbols are only accepted with an explicit $ prefix (e.g. $F)
// because short uppercase words are too ambiguous otherwise.
func ExtractTickers(text string) []string {
	if text == "" {
		return nil
	}
	upper := strings.ToUpper(text)
	matches := tickerPattern.FindAllString(upper, -1)

	seen := make(map[string]struct{})
	var tickers []string
	for _, ticker := range matches {
		if _, dup := seen[ticker]; dup {
			continue
		}
		if _, stop := stopwords[ticker]; stop {
			continue
		}
		if len(ticker) <= 2 && !strings.Contains(upper, "$"+ticker) {
			continue
		}
		seen[ticker] = struct{}{}
		tickers = append(tickers, ticker)
	}
	return tickers
}

// DetectCompare reports whether the question asks for a comparison: two or
// more tickers, or an explicit vs/versus/compare.
func DetectCompare(text string, tickers []string) bool {
	if len(tickers) >= 2 {
		return true
	}
	return comparePattern.MatchString(text)
}

// Resolve converts a question into the structured Parsed record. The today
// anchor makes relative timeframes deterministic; pass time.Now() outside
// tests. Fails with UnresolvedIntentError when no ticker can be identified.
func Resolve(question string, today time.Time) (models.Parsed, error) {
	tickers := ExtractTickers(question)
	if len(tickers) == 0 {
		return models.Parsed{}, &errors.UnresolvedIntentError{Question: question}
	}

	start, end, interval := ResolveTimeframe(question, today)

	return models.Parsed{
		Tickers:   tickers,
		Start:     start,
		End:       end,
		Interval:  interval,
		Compare:   DetectCompare(question, tickers),
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}, nil
}
