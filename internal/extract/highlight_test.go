package extract

import "testing"

func TestHighlight_NoSelections(t *testing.T) {
	segs := Highlight("plain text", nil)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Kind != SegmentPlain || segs[0].Text != "plain text" {
		t.Errorf("unexpected segment: %+v", segs[0])
	}
}

func TestHighlight_EmptyText(t *testing.T) {
	segs := Highlight("", []Selection{{ID: "1", Text: "fox"}})
	if len(segs) != 0 {
		t.Errorf("expected no segments for empty text, got %d", len(segs))
	}
}

func TestHighlight_SplitsEveryOccurrence(t *testing.T) {
	segs := Highlight("fox and fox", []Selection{{ID: "1", Text: "fox"}})

	want := []Segment{
		{Text: "fox", Kind: SegmentMatch, SelectionID: "1"},
		{Text: " and ", Kind: SegmentPlain},
		{Text: "fox", Kind: SegmentMatch, SelectionID: "1"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], segs[i])
		}
	}
}

func TestHighlight_FreezeOnMatch(t *testing.T) {
	// "fire" is contained in the already-matched "firefighter" span and must
	// not re-split it; only the standalone occurrence becomes a match.
	segs := Highlight("firefighter fights fire", []Selection{
		{ID: "1", Text: "firefighter"},
		{ID: "2", Text: "fire"},
	})

	want := []Segment{
		{Text: "firefighter", Kind: SegmentMatch, SelectionID: "1"},
		{Text: " fights ", Kind: SegmentPlain},
		{Text: "fire", Kind: SegmentMatch, SelectionID: "2"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], segs[i])
		}
	}
}

func TestHighlight_InsertionOrderWinsOverlap(t *testing.T) {
	// Unlike Compile's length ordering, highlighting applies selections in
	// insertion order: a shorter span marked first freezes its region.
	segs := Highlight("futuristic warrior", []Selection{
		{ID: "1", Text: "warrior"},
		{ID: "2", Text: "futuristic warrior"},
	})

	want := []Segment{
		{Text: "futuristic ", Kind: SegmentPlain},
		{Text: "warrior", Kind: SegmentMatch, SelectionID: "1"},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d: expected %+v, got %+v", i, want[i], segs[i])
		}
	}
}

func TestHighlight_AbsentTextYieldsNoMatch(t *testing.T) {
	segs := Highlight("nothing to see", []Selection{{ID: "1", Text: "dragon"}})
	if len(segs) != 1 || segs[0].Kind != SegmentPlain {
		t.Errorf("expected single plain segment, got %+v", segs)
	}
}

func TestHighlight_ReassemblesToOriginal(t *testing.T) {
	raw := "A futuristic warrior stands. The warrior holds a sword."
	segs := Highlight(raw, []Selection{
		{ID: "1", Text: "warrior"},
		{ID: "2", Text: "sword"},
	})

	var rebuilt string
	for _, seg := range segs {
		rebuilt += seg.Text
	}
	if rebuilt != raw {
		t.Errorf("segments do not reassemble to the original text:\n%q\n%q", raw, rebuilt)
	}
}
