package render

import "regexp"

// linkPattern matches [label](url). Both parts are non-empty and lazy, and
// neither may contain a line terminator (\n, \r, U+2028, U+2029).
var linkPattern = regexp.MustCompile(`\[([^\n\r\x{2028}\x{2029}]+?)\]\(([^\n\r\x{2028}\x{2029}]+?)\)`)

// SegmentKind distinguishes plain text from links
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentLink
)

// Segment is one run of parsed message text
type Segment struct {
	Kind SegmentKind
	Text string // literal text, or the link label
	URL  string // only set for links
}

// IsLink reports whether the segment is a link
func (s Segment) IsLink() bool {
	return s.Kind == SegmentLink
}

// ParseLinks splits text into text and link segments in document order.
// Unmatched brackets stay literal. Empty text yields no segments.
func ParseLinks(text string) []Segment {
	if text == "" {
		return nil
	}

	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Kind: SegmentText, Text: text}}
	}

	segments := make([]Segment, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segments = append(segments, Segment{Kind: SegmentText, Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{
			Kind: SegmentLink,
			Text: text[m[2]:m[3]],
			URL:  text[m[4]:m[5]],
		})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Kind: SegmentText, Text: text[last:]})
	}
	return segments
}
