// Package describe extracts timestamp markers from free-text video descriptions.
package describe

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"StageFM/model"
)

// Matches an HH:MM:SS, MM:SS or SS duration prefix. Hours up to 23,
// minutes/seconds up to 59, leading zeros optional.
var hmsDurationRegex = regexp.MustCompile(`^(?:(?:([01]?\d|2[0-3]):)?([0-5]?\d):)?([0-5]?\d)`)

var multiWhitespace = regexp.MustCompile(`\s+`)
var firstLetter = regexp.MustCompile(`[a-zA-Z]`)

// LineTimeStamp is the result of parsing a single description line.
type LineTimeStamp struct {
	// Raw is the matched duration prefix as written, e.g. "1:23".
	Raw string
	// Seconds is the prefix converted to seconds.
	Seconds float64
	// RestOfLine is everything after the prefix in the original line.
	RestOfLine string
}

// ExtractLineTimeStamp parses the duration prefix of one description line.
// The second return value is false if the line does not start with one.
func ExtractLineTimeStamp(line string) (LineTimeStamp, bool) {
	str := multiWhitespace.ReplaceAllString(strings.TrimSpace(line), " ")
	match := hmsDurationRegex.FindStringSubmatch(str)
	if match == nil {
		return LineTimeStamp{}, false
	}

	raw := match[0]
	seconds := 0.0
	for _, part := range match[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return LineTimeStamp{}, false
		}
		seconds = seconds*60 + float64(n)
	}

	rest := ""
	if idx := strings.Index(line, raw); idx != -1 {
		rest = line[idx+len(raw):]
	}
	return LineTimeStamp{Raw: raw, Seconds: seconds, RestOfLine: rest}, true
}

// ExtractTimeStamps collects the timestamps of a whole description,
// ordered ascending by seconds. The label of each timestamp is the rest of
// its line starting at the first letter; lines without any letter get their
// 1-based extraction index as label.
func ExtractTimeStamps(description string) []model.TimeStamp {
	var stamps []model.TimeStamp
	for _, line := range strings.Split(description, "\n") {
		lts, ok := ExtractLineTimeStamp(line)
		if !ok {
			continue
		}
		label := strconv.Itoa(len(stamps) + 1)
		if loc := firstLetter.FindStringIndex(lts.RestOfLine); loc != nil {
			label = lts.RestOfLine[loc[0]:]
		}
		stamps = append(stamps, model.TimeStamp{Seconds: lts.Seconds, Label: label})
	}
	sort.SliceStable(stamps, func(i, j int) bool { return stamps[i].Seconds < stamps[j].Seconds })
	return stamps
}
