package arduino

import "regexp"

// EventKind tags a classified span of tool output.
type EventKind int

const (
	EventPlain EventKind = iota
	EventProgressStart
	EventProgressEnd
	EventBanner
	EventError
)

// OutputEvent is the unit of classified tool output delivered to the sink.
type OutputEvent struct {
	Kind EventKind
	Text string
}

// Source identifies which tool stream a chunk came from. The two tools route
// their output differently: arduino-builder reports diagnostics on stderr and
// the compilation summary on stdout, while avrdude writes all of its progress
// to stderr and leaves stdout as plain passthrough.
type Source int

const (
	BuildOut Source = iota
	BuildErr
	FlashOut
	FlashErr
)

var (
	buildErrorPattern   = regexp.MustCompile(`(?i)error:`)
	buildSummaryPattern = regexp.MustCompile(`Sketch uses|Global variables use`)

	progressStartPattern = regexp.MustCompile(`Reading \||Writing \|`)
	progressEndPattern   = regexp.MustCompile(`\d+%`)
	flashBannerPattern   = regexp.MustCompile(`avrdude done\.`)
	flashErrorPattern    = regexp.MustCompile(`can't open device|programmer is not responding`)
)

// flashRules are tried leftmost-first within a chunk; rule order breaks ties.
var flashRules = []struct {
	kind    EventKind
	pattern *regexp.Regexp
}{
	{EventProgressStart, progressStartPattern},
	{EventBanner, flashBannerPattern},
	{EventError, flashErrorPattern},
	{EventProgressEnd, progressEndPattern},
}

// Classify splits a raw chunk from one of the tool streams into tagged
// events. Build streams are classified chunk-wise; the programmer stream is
// classified positionally, bracketing only the matched substring so that
// plain text before and after a marker stays verbatim and untagged.
func Classify(src Source, chunk string) []OutputEvent {
	if chunk == "" {
		return nil
	}
	switch src {
	case BuildErr:
		if buildErrorPattern.MatchString(chunk) {
			return []OutputEvent{{Kind: EventError, Text: chunk}}
		}
		return []OutputEvent{{Kind: EventPlain, Text: chunk}}
	case BuildOut:
		if buildSummaryPattern.MatchString(chunk) {
			return []OutputEvent{{Kind: EventBanner, Text: chunk}}
		}
		return []OutputEvent{{Kind: EventPlain, Text: chunk}}
	case FlashErr:
		return classifyFlash(chunk)
	}
	return []OutputEvent{{Kind: EventPlain, Text: chunk}}
}

func classifyFlash(chunk string) []OutputEvent {
	var events []OutputEvent
	for chunk != "" {
		kind := EventPlain
		loc := []int(nil)
		for _, rule := range flashRules {
			m := rule.pattern.FindStringIndex(chunk)
			if m == nil {
				continue
			}
			// Only the chunk's trailing percentage closes the progress
			// span; earlier ones are left untagged.
			if rule.kind == EventProgressEnd {
				all := rule.pattern.FindAllStringIndex(chunk, -1)
				m = all[len(all)-1]
			}
			if loc == nil || m[0] < loc[0] {
				loc = m
				kind = rule.kind
			}
		}
		if loc == nil {
			events = append(events, OutputEvent{Kind: EventPlain, Text: chunk})
			break
		}
		if loc[0] > 0 {
			events = append(events, OutputEvent{Kind: EventPlain, Text: chunk[:loc[0]]})
		}
		events = append(events, OutputEvent{Kind: kind, Text: chunk[loc[0]:loc[1]]})
		chunk = chunk[loc[1]:]
	}
	return events
}
