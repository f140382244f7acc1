package extract

import "strings"

// SegmentKind tags a highlight segment as plain text or a matched span.
type SegmentKind string

const (
	SegmentPlain SegmentKind = "plain"
	SegmentMatch SegmentKind = "match"
)

// Segment is a contiguous run of the source text, produced only for
// rendering a highlight preview. Match segments reference the selection
// that claimed them.
type Segment struct {
	Text        string      `json:"text"`
	Kind        SegmentKind `json:"kind"`
	SelectionID string      `json:"selection_id,omitempty"`
}

// Highlight projects raw text and the current selections into a renderable
// segment sequence. Selections apply in insertion order; a span claimed by
// an earlier selection is frozen and never re-split by a later one, even if
// the later selection's text is contained in the already-matched span. A
// selection whose text does not occur in the currently-plain remainder
// simply contributes no match segments.
//
// Note the ordering here is insertion order, not length order; substitution
// in Compile deliberately orders differently.
func Highlight(raw string, selections []Selection) []Segment {
	if raw == "" {
		return nil
	}
	segments := []Segment{{Text: raw, Kind: SegmentPlain}}
	for _, sel := range selections {
		if sel.Text == "" {
			continue
		}
		next := make([]Segment, 0, len(segments))
		for _, seg := range segments {
			if seg.Kind != SegmentPlain {
				next = append(next, seg)
				continue
			}
			next = append(next, splitPlain(seg.Text, sel)...)
		}
		segments = next
	}
	return segments
}

// splitPlain splits one plain segment on every occurrence of the selection's
// text, freezing each occurrence as a match segment.
func splitPlain(text string, sel Selection) []Segment {
	var out []Segment
	rest := text
	for {
		i := strings.Index(rest, sel.Text)
		if i < 0 {
			break
		}
		if i > 0 {
			out = append(out, Segment{Text: rest[:i], Kind: SegmentPlain})
		}
		out = append(out, Segment{Text: sel.Text, Kind: SegmentMatch, SelectionID: sel.ID})
		rest = rest[i+len(sel.Text):]
	}
	if rest != "" {
		out = append(out, Segment{Text: rest, Kind: SegmentPlain})
	}
	return out
}
