package annotation

import (
	"fmt"
	"image"
	"strings"
)

// none marks a kind with no selected shape.
const none = -1

// Thresholds are the gesture tolerances used when committing shapes.
type Thresholds struct {
	// CloseDistance is how near the first vertex a click must land to
	// close the polygon under construction.
	CloseDistance float64
	// MinLineLength is the shortest line that is kept. Shorter drags are
	// treated as noise.
	MinLineLength float64
}

// DefaultThresholds returns the stock gesture tolerances.
func DefaultThresholds() Thresholds {
	return Thresholds{CloseDistance: 10, MinLineLength: 5}
}

// SelectionChanges reports which selections ValidateSelections cleared.
type SelectionChanges struct {
	Rect    bool
	Line    bool
	Polygon bool
	Any     bool
}

// SelectionInfo describes the selection state of one kind.
type SelectionInfo struct {
	Selected int
	Valid    bool
	Count    int
}

// Store owns every committed shape, the polygon under construction and
// one selection per kind. A selection is either absent or a valid index
// into its collection.
//
// Store is not safe for concurrent use.
type Store struct {
	rects    []Rect
	lines    []Line
	polygons []Polygon
	current  Polygon
	selected [kindCount]int

	thresholds Thresholds
	styles     StyleTable
}

// NewStore returns an empty store.
func NewStore(th Thresholds, styles StyleTable) *Store {
	if th.CloseDistance <= 0 {
		th.CloseDistance = DefaultThresholds().CloseDistance
	}
	if th.MinLineLength < 0 {
		th.MinLineLength = 0
	}
	s := &Store{thresholds: th, styles: styles.Clone()}
	s.ClearSelections()
	return s
}

// Thresholds returns the gesture tolerances in use.
func (s *Store) Thresholds() Thresholds { return s.thresholds }

// Count returns the number of committed shapes of kind.
func (s *Store) Count(kind Kind) int {
	switch kind {
	case KindRect:
		return len(s.rects)
	case KindLine:
		return len(s.lines)
	case KindPolygon:
		return len(s.polygons)
	}
	return 0
}

// Selected returns the selected index for kind.
func (s *Store) Selected(kind Kind) (int, bool) {
	if kind < 0 || kind >= kindCount {
		return 0, false
	}
	idx := s.selected[kind]
	return idx, idx != none
}

// Select makes idx the selection for kind. Out-of-range indices clear it.
func (s *Store) Select(kind Kind, idx int) bool {
	if kind < 0 || kind >= kindCount {
		return false
	}
	if idx < 0 || idx >= s.Count(kind) {
		s.selected[kind] = none
		return false
	}
	s.selected[kind] = idx
	return true
}

// ClearSelections drops every selection.
func (s *Store) ClearSelections() {
	for i := range s.selected {
		s.selected[i] = none
	}
}

// HasSelections reports whether any kind has a selected shape.
func (s *Store) HasSelections() bool {
	for _, idx := range s.selected {
		if idx != none {
			return true
		}
	}
	return false
}

// SelectionInfo returns the selection and count for each kind.
func (s *Store) SelectionInfo() map[Kind]SelectionInfo {
	out := make(map[Kind]SelectionInfo, len(Kinds))
	for _, k := range Kinds {
		idx, ok := s.Selected(k)
		out[k] = SelectionInfo{Selected: idx, Valid: ok, Count: s.Count(k)}
	}
	return out
}

// itemAdded selects the newest shape of kind.
func (s *Store) itemAdded(kind Kind) {
	s.selected[kind] = s.Count(kind) - 1
}

// CommitRect stores r unless it has no area.
func (s *Store) CommitRect(r Rect) bool {
	if r.Empty() {
		return false
	}
	s.rects = append(s.rects, r)
	s.itemAdded(KindRect)
	return true
}

// CommitLine stores l unless it is no longer than the minimum line length.
func (s *Store) CommitLine(l Line) bool {
	if l.Length() <= s.thresholds.MinLineLength {
		return false
	}
	s.lines = append(s.lines, l)
	s.itemAdded(KindLine)
	return true
}

// AddPolygonPoint extends the polygon under construction. A click close
// to the first vertex of a polygon that already has three or more points
// closes it instead, and AddPolygonPoint reports true.
func (s *Store) AddPolygonPoint(p image.Point) bool {
	if len(s.current) > 2 && distance(p, s.current[0]) < s.thresholds.CloseDistance {
		return s.commitCurrent()
	}
	s.current = append(s.current, p)
	return false
}

// ClosePolygon commits the polygon under construction if it has at least
// three vertices.
func (s *Store) ClosePolygon() bool {
	if len(s.current) < 3 {
		return false
	}
	return s.commitCurrent()
}

func (s *Store) commitCurrent() bool {
	s.polygons = append(s.polygons, s.current.Clone())
	s.current = nil
	s.itemAdded(KindPolygon)
	return true
}

// UndoLastPolygonPoint removes the newest vertex of the polygon under
// construction.
func (s *Store) UndoLastPolygonPoint() bool {
	if len(s.current) == 0 {
		return false
	}
	s.current = s.current[:len(s.current)-1]
	return true
}

// RemoveLast pops the newest shape of kind. The selection is cleared when
// it pointed at the removed shape.
func (s *Store) RemoveLast(kind Kind) bool {
	n := s.Count(kind)
	if n == 0 {
		return false
	}
	switch kind {
	case KindRect:
		s.rects = s.rects[:n-1]
	case KindLine:
		s.lines = s.lines[:n-1]
	case KindPolygon:
		s.polygons = s.polygons[:n-1]
	}
	if s.selected[kind] == n-1 {
		s.selected[kind] = none
	}
	return true
}

// ClearAll empties the collection for kind. Clearing polygons also
// discards the polygon under construction.
func (s *Store) ClearAll(kind Kind) {
	switch kind {
	case KindRect:
		s.rects = nil
	case KindLine:
		s.lines = nil
	case KindPolygon:
		s.polygons = nil
		s.current = nil
	default:
		return
	}
	s.selected[kind] = none
}

// ClearEverything empties every collection and drops every selection.
func (s *Store) ClearEverything() {
	s.rects, s.lines, s.polygons, s.current = nil, nil, nil, nil
	s.ClearSelections()
}

// ValidateSelections clears any selection that no longer points into its
// collection and reports which ones changed.
func (s *Store) ValidateSelections() SelectionChanges {
	var ch SelectionChanges
	check := func(kind Kind) bool {
		idx := s.selected[kind]
		if idx == none {
			return false
		}
		if idx < 0 || idx >= s.Count(kind) {
			s.selected[kind] = none
			return true
		}
		return false
	}
	ch.Rect = check(KindRect)
	ch.Line = check(KindLine)
	ch.Polygon = check(KindPolygon)
	ch.Any = ch.Rect || ch.Line || ch.Polygon
	return ch
}

// StyleFor resolves the palette entry for shape idx of kind.
func (s *Store) StyleFor(kind Kind, idx int) ShapeStyle {
	sel, ok := s.Selected(kind)
	return s.styles.Resolve(kind, ok && sel == idx)
}

// Rects returns a copy of the committed rectangles.
func (s *Store) Rects() []Rect {
	return append([]Rect(nil), s.rects...)
}

// Lines returns a copy of the committed lines.
func (s *Store) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// Polygons returns a deep copy of the committed polygons.
func (s *Store) Polygons() []Polygon {
	out := make([]Polygon, len(s.polygons))
	for i, p := range s.polygons {
		out[i] = p.Clone()
	}
	return out
}

// CurrentPolygon returns a copy of the polygon under construction.
func (s *Store) CurrentPolygon() Polygon {
	return s.current.Clone()
}

// Snapshot is a detached copy of a store's contents.
type Snapshot struct {
	Rects    []Rect
	Lines    []Line
	Polygons []Polygon
	Current  Polygon
	Selected [kindCount]int
	Styles   StyleTable
}

// Snapshot copies the store so it can be rendered without aliasing.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Rects:    s.Rects(),
		Lines:    s.Lines(),
		Polygons: s.Polygons(),
		Current:  s.CurrentPolygon(),
		Selected: s.selected,
		Styles:   s.styles.Clone(),
	}
}

// IsSelected reports whether shape idx of kind is the selection.
func (sn Snapshot) IsSelected(kind Kind, idx int) bool {
	if kind < 0 || kind >= kindCount {
		return false
	}
	return sn.Selected[kind] != none && sn.Selected[kind] == idx
}

// StyleFor resolves the palette entry for shape idx of kind.
func (sn Snapshot) StyleFor(kind Kind, idx int) ShapeStyle {
	styles := sn.Styles
	if styles == nil {
		styles = DefaultStyles()
	}
	return styles.Resolve(kind, sn.IsSelected(kind, idx))
}

// Summary renders the committed geometry one shape per line, in the
// same notation the overlay labels use.
func (s *Store) Summary() string {
	var b strings.Builder
	for i, r := range s.rects {
		fmt.Fprintf(&b, "R%d: %s\n", i+1, r)
	}
	for i, l := range s.lines {
		fmt.Fprintf(&b, "L%d: %s\n", i+1, l)
	}
	for i, p := range s.polygons {
		fmt.Fprintf(&b, "Polygon %d:", i+1)
		for _, v := range p {
			fmt.Fprintf(&b, " (%d,%d)", v.X, v.Y)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
