package annotation

import (
	"image"
	"math/rand"
	"strings"
	"testing"
)

func newTestStore() *Store {
	return NewStore(DefaultThresholds(), DefaultStyles())
}

func checkSelections(t *testing.T, s *Store) {
	t.Helper()
	for _, k := range Kinds {
		if idx, ok := s.Selected(k); ok && (idx < 0 || idx >= s.Count(k)) {
			t.Fatalf("%v selection %d out of range [0,%d)", k, idx, s.Count(k))
		}
	}
}

func TestCommitAutoSelects(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 3; i++ {
		if !s.CommitRect(Rect{X: i, Y: i, W: 5, H: 5}) {
			t.Fatalf("rect %d rejected", i)
		}
		if idx, ok := s.Selected(KindRect); !ok || idx != i {
			t.Fatalf("selected rect = %d,%v want %d", idx, ok, i)
		}
	}
	if !s.CommitLine(Line{0, 0, 10, 0}) {
		t.Fatalf("line rejected")
	}
	if idx, ok := s.Selected(KindLine); !ok || idx != 0 {
		t.Fatalf("selected line = %d,%v", idx, ok)
	}
	for _, p := range []image.Point{{0, 0}, {20, 0}, {20, 20}} {
		s.AddPolygonPoint(p)
	}
	if !s.ClosePolygon() {
		t.Fatalf("polygon not closed")
	}
	if idx, ok := s.Selected(KindPolygon); !ok || idx != 0 {
		t.Fatalf("selected polygon = %d,%v", idx, ok)
	}
}

func TestDegenerateShapesRejected(t *testing.T) {
	s := newTestStore()
	for _, r := range []Rect{{10, 10, 0, 5}, {10, 10, 5, 0}, {0, 0, 0, 0}} {
		if s.CommitRect(r) {
			t.Errorf("rect %v accepted", r)
		}
	}
	for _, l := range []Line{{0, 0, 3, 4}, {0, 0, 0, 0}, {5, 5, 7, 7}} {
		if s.CommitLine(l) {
			t.Errorf("line %v of length %.2f accepted", l, l.Length())
		}
	}
	if len(s.Rects()) != 0 || len(s.Lines()) != 0 {
		t.Fatalf("degenerate shapes stored: %v %v", s.Rects(), s.Lines())
	}
	if s.HasSelections() {
		t.Fatalf("selection set without a shape")
	}
	if !s.CommitLine(Line{0, 0, 6, 0}) {
		t.Fatalf("line of length 6 rejected")
	}
}

func TestPolygonCloseNearStart(t *testing.T) {
	s := newTestStore()
	s.AddPolygonPoint(image.Pt(100, 100))
	s.AddPolygonPoint(image.Pt(150, 100))
	if s.AddPolygonPoint(image.Pt(103, 103)) {
		t.Fatalf("closed with only two points")
	}
	if got := len(s.CurrentPolygon()); got != 3 {
		t.Fatalf("current has %d points", got)
	}
	if !s.AddPolygonPoint(image.Pt(104, 98)) {
		t.Fatalf("click near start did not close")
	}
	if len(s.CurrentPolygon()) != 0 {
		t.Fatalf("current not cleared: %v", s.CurrentPolygon())
	}
	polys := s.Polygons()
	if len(polys) != 1 || len(polys[0]) != 3 {
		t.Fatalf("polygons = %v", polys)
	}
}

func TestPolygonFarClickAppends(t *testing.T) {
	s := newTestStore()
	for _, p := range []image.Point{{0, 0}, {50, 0}, {50, 50}, {10, 0}} {
		if s.AddPolygonPoint(p) {
			t.Fatalf("closed at %v", p)
		}
	}
	if got := len(s.CurrentPolygon()); got != 4 {
		t.Fatalf("current has %d points", got)
	}
}

func TestClosePolygonNeedsThreePoints(t *testing.T) {
	s := newTestStore()
	s.AddPolygonPoint(image.Pt(0, 0))
	s.AddPolygonPoint(image.Pt(10, 10))
	if s.ClosePolygon() {
		t.Fatalf("closed with two points")
	}
	if got := len(s.CurrentPolygon()); got != 2 {
		t.Fatalf("current changed to %d points", got)
	}
	if s.Count(KindPolygon) != 0 {
		t.Fatalf("polygon committed")
	}
}

func TestUndoLastPolygonPoint(t *testing.T) {
	s := newTestStore()
	if s.UndoLastPolygonPoint() {
		t.Fatalf("undo on empty reported a change")
	}
	s.AddPolygonPoint(image.Pt(1, 1))
	s.AddPolygonPoint(image.Pt(2, 2))
	if !s.UndoLastPolygonPoint() {
		t.Fatalf("undo failed")
	}
	if got := s.CurrentPolygon(); len(got) != 1 || got[0] != image.Pt(1, 1) {
		t.Fatalf("current = %v", got)
	}
}

func TestRemoveLastClearsSelection(t *testing.T) {
	s := newTestStore()
	s.CommitRect(Rect{0, 0, 5, 5})
	s.CommitRect(Rect{1, 1, 5, 5})
	s.Select(KindRect, 0)
	if !s.RemoveLast(KindRect) {
		t.Fatalf("remove failed")
	}
	if idx, ok := s.Selected(KindRect); !ok || idx != 0 {
		t.Fatalf("unrelated selection lost: %d,%v", idx, ok)
	}
	s.RemoveLast(KindRect)
	if _, ok := s.Selected(KindRect); ok {
		t.Fatalf("selection survived removing its shape")
	}
	if s.RemoveLast(KindRect) {
		t.Fatalf("remove on empty reported a change")
	}
}

func TestClearAll(t *testing.T) {
	s := newTestStore()
	s.CommitRect(Rect{0, 0, 5, 5})
	s.CommitLine(Line{0, 0, 10, 10})
	s.AddPolygonPoint(image.Pt(0, 0))
	s.ClearAll(KindPolygon)
	if len(s.CurrentPolygon()) != 0 {
		t.Fatalf("polygon in progress survived ClearAll")
	}
	s.ClearAll(KindRect)
	if s.Count(KindRect) != 0 || s.Count(KindLine) != 1 {
		t.Fatalf("counts rect=%d line=%d", s.Count(KindRect), s.Count(KindLine))
	}
	if _, ok := s.Selected(KindRect); ok {
		t.Fatalf("rect selection survived")
	}
	s.ClearEverything()
	if s.HasSelections() || s.Count(KindLine) != 0 {
		t.Fatalf("ClearEverything left state behind")
	}
}

func TestValidateSelections(t *testing.T) {
	s := newTestStore()
	s.CommitRect(Rect{0, 0, 5, 5})
	s.CommitLine(Line{0, 0, 10, 10})
	// simulate a host removing shapes behind the store's back
	s.rects = nil
	s.selected[KindPolygon] = 7
	ch := s.ValidateSelections()
	if !ch.Rect || ch.Line || !ch.Polygon || !ch.Any {
		t.Fatalf("changes = %+v", ch)
	}
	if ch := s.ValidateSelections(); ch.Any {
		t.Fatalf("second validation changed %+v", ch)
	}
	checkSelections(t, s)
}

func TestSelectionInvariantRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newTestStore()
	for i := 0; i < 5000; i++ {
		k := Kinds[rng.Intn(len(Kinds))]
		switch rng.Intn(8) {
		case 0:
			s.CommitRect(Rect{rng.Intn(50), rng.Intn(50), rng.Intn(4), rng.Intn(4)})
		case 1:
			s.CommitLine(Line{rng.Intn(20), rng.Intn(20), rng.Intn(20), rng.Intn(20)})
		case 2:
			s.AddPolygonPoint(image.Pt(rng.Intn(40), rng.Intn(40)))
		case 3:
			s.ClosePolygon()
		case 4:
			s.RemoveLast(k)
		case 5:
			if rng.Intn(10) == 0 {
				s.ClearAll(k)
			}
		case 6:
			s.Select(k, rng.Intn(6)-1)
		case 7:
			s.UndoLastPolygonPoint()
		}
		s.ValidateSelections()
		checkSelections(t, s)
	}
}

func TestStyleFor(t *testing.T) {
	s := newTestStore()
	s.CommitRect(Rect{0, 0, 5, 5})
	s.CommitRect(Rect{0, 0, 6, 6})
	sel := s.StyleFor(KindRect, 1)
	normal := s.StyleFor(KindRect, 0)
	if !sel.Selected || normal.Selected {
		t.Fatalf("selected flags wrong: %+v %+v", sel, normal)
	}
	if sel.Thickness != normal.Thickness+1 {
		t.Errorf("thickness %d vs %d", sel.Thickness, normal.Thickness)
	}
	if sel.Color != green || normal.Color != red {
		t.Errorf("colors %v %v", sel.Color, normal.Color)
	}
	snap := s.Snapshot()
	if got := snap.StyleFor(KindRect, 1); got != sel {
		t.Errorf("snapshot style %+v, want %+v", got, sel)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := newTestStore()
	s.CommitRect(Rect{0, 0, 5, 5})
	for _, p := range []image.Point{{0, 0}, {20, 0}, {20, 20}} {
		s.AddPolygonPoint(p)
	}
	s.ClosePolygon()
	rects := s.Rects()
	rects[0].W = 99
	polys := s.Polygons()
	polys[0][0] = image.Pt(-1, -1)
	snap := s.Snapshot()
	snap.Polygons[0][1] = image.Pt(-2, -2)
	if s.Rects()[0].W != 5 {
		t.Fatalf("rect mutated through accessor")
	}
	if p := s.Polygons()[0]; p[0] != image.Pt(0, 0) || p[1] != image.Pt(20, 0) {
		t.Fatalf("polygon mutated through accessor: %v", p)
	}
}

func TestSelectionInfoAndSummary(t *testing.T) {
	s := newTestStore()
	s.CommitRect(RectFromCorners(image.Pt(60, 40), image.Pt(10, 10)))
	s.CommitLine(LineBetween(image.Pt(0, 0), image.Pt(10, 0)))
	info := s.SelectionInfo()
	if got := info[KindRect]; !got.Valid || got.Selected != 0 || got.Count != 1 {
		t.Errorf("rect info %+v", got)
	}
	if got := info[KindPolygon]; got.Valid || got.Count != 0 {
		t.Errorf("polygon info %+v", got)
	}
	sum := s.Summary()
	for _, want := range []string{"R1: (10,10) 50x30", "L1: (0,0)-(10,0)"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary %q missing %q", sum, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("circle"); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}
