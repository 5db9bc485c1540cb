package pairwise

import (
	"fmt"
	"strings"
	"sync"
)

// Discipline selects how concurrent row tasks deposit results into the shared
// matrix.
type Discipline int

const (
	// Disjoint lets each task write only the upper part of its own row; the
	// lower triangle is mirrored on the calling goroutine after the join.
	Disjoint Discipline = iota
	// Locked takes one matrix-wide mutex per pair and writes both mirrored
	// cells under it.
	Locked
)

var disciplineNames = map[Discipline]string{
	Disjoint: "disjoint",
	Locked:   "locked",
}

func (d Discipline) String() string {
	if name, ok := disciplineNames[d]; ok {
		return name
	}
	return fmt.Sprintf("discipline(%d)", int(d))
}

func ParseDiscipline(s string) (Discipline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "disjoint":
		return Disjoint, nil
	case "locked", "mutex":
		return Locked, nil
	default:
		return Disjoint, fmt.Errorf("%w: %q", ErrUnknownDiscipline, s)
	}
}

// DisciplineNames lists the accepted names in declaration order.
func DisciplineNames() []string {
	return []string{Disjoint.String(), Locked.String()}
}

// rowWriter fills the pairs (i, j>i) of one row and finalizes the matrix once
// every row task has returned.
type rowWriter interface {
	fillRow(i int, positions PositionSet, box Box) int
	finish()
}

func newRowWriter(d Discipline, m *Matrix) rowWriter {
	if d == Locked {
		return &lockedWriter{m: m}
	}
	return &disjointWriter{m: m}
}

type disjointWriter struct {
	m *Matrix
}

func (w *disjointWriter) fillRow(i int, positions PositionSet, box Box) int {
	n := w.m.n
	row := w.m.Row(i)
	pi := positions[i]
	for j := i + 1; j < n; j++ {
		row[j] = box.Distance(pi, positions[j])
	}
	return n - i - 1
}

func (w *disjointWriter) finish() {
	w.m.mirror()
}

type lockedWriter struct {
	mu sync.Mutex
	m  *Matrix
}

func (w *lockedWriter) fillRow(i int, positions PositionSet, box Box) int {
	n := w.m.n
	data := w.m.data
	pi := positions[i]
	for j := i + 1; j < n; j++ {
		d := box.Distance(pi, positions[j])
		w.mu.Lock()
		data[i*n+j] = d
		data[j*n+i] = d
		w.mu.Unlock()
	}
	return n - i - 1
}

func (w *lockedWriter) finish() {}
