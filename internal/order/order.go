// Package order implements fractional order-index computation for drag-and-
// drop reordering of tasks and sections.
//
// THE FRACTIONAL KEY TRICK:
// Each sibling carries a float64 OrderIndex. Display order is simply the
// ascending sort of those keys. When an item is dropped somewhere new, we
// compute one fresh key for the moved item — usually the midpoint between its
// new neighbours — and touch nothing else. One row update per drop, no
// renumbering of siblings, no lost-update races between concurrent drags of
// different items.
//
// The price is precision: repeated midpoint splits of the same gap halve it
// each time, and a float64 runs out of mantissa after ~50 splits. The live
// path accepts that limitation; Renormalize exists as an operator-invoked
// recovery tool (see cmd/canvasctl).
package order

import (
	"math"
	"sort"
	"time"
)

// Sibling is one member of an ordered container — tasks sharing a
// (todoListId, sectionId) pair, or sections of one list.
type Sibling struct {
	ID         string
	OrderIndex float64
	CreatedAt  time.Time
}

// Sort orders siblings ascending by OrderIndex, breaking ties by CreatedAt
// then ID. Equal keys are possible (a "move down" deliberately duplicates the
// target's key), so the tie-break must be deterministic or the list would
// shuffle between renders.
func Sort(siblings []Sibling) {
	sort.SliceStable(siblings, func(i, j int) bool {
		a, b := siblings[i], siblings[j]
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Position returns the index of id within siblings, or -1 if absent.
func Position(siblings []Sibling, id string) int {
	for i, s := range siblings {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// ForMove computes the new OrderIndex for moving the sibling at fromPos to
// toPos within an already-sorted slice. The second return is false when the
// move is a no-op (same position) and no mutation should be issued.
//
// Rules:
//   - toPos == 0:        max(0, firstSibling-1) — slot in before everything
//   - moving down:       the target's current key; the tie resolves adjacently
//     because Sort breaks equal keys by (CreatedAt, ID)
//   - moving up:         midpoint of the target and its previous sibling
func ForMove(siblings []Sibling, fromPos, toPos int) (float64, bool) {
	n := len(siblings)
	if fromPos < 0 || fromPos >= n || toPos < 0 || toPos >= n {
		return 0, false
	}
	if fromPos == toPos {
		return 0, false
	}

	target := siblings[toPos]

	if toPos == 0 {
		return math.Max(0, siblings[0].OrderIndex-1), true
	}

	if toPos > fromPos {
		// Moving down: take the target's former key.
		return target.OrderIndex, true
	}

	// Moving up: split the gap between the target and its predecessor.
	prev := siblings[toPos-1]
	return (target.OrderIndex + prev.OrderIndex) / 2, true
}

// ForCrossMove computes the key for an item entering a container it is not
// currently a member of. dest must be sorted and must not contain the item;
// toPos ranges 0..len(dest), where len(dest) means "append".
func ForCrossMove(dest []Sibling, toPos int) float64 {
	if len(dest) == 0 {
		return 0
	}
	if toPos <= 0 {
		return math.Max(0, dest[0].OrderIndex-1)
	}
	if toPos >= len(dest) {
		return Append(dest)
	}
	return (dest[toPos-1].OrderIndex + dest[toPos].OrderIndex) / 2
}

// Append returns the key that places a new item after every existing sibling:
// max existing key + 1, or 0 for an empty container.
func Append(dest []Sibling) float64 {
	if len(dest) == 0 {
		return 0
	}
	max := dest[0].OrderIndex
	for _, s := range dest[1:] {
		if s.OrderIndex > max {
			max = s.OrderIndex
		}
	}
	return max + 1
}

// Renormalize rewrites the keys of a sorted sibling slice to the integers
// 0..n-1, reclaiming the precision eaten by repeated midpoint splits. The
// live reorder path never calls this; it is invoked only by the operator
// tooling, because rewriting every sibling races with concurrent drags.
// Returns the ids paired with their new keys, skipping already-correct rows.
func Renormalize(siblings []Sibling) []Rekey {
	var out []Rekey
	for i, s := range siblings {
		want := float64(i)
		if s.OrderIndex != want {
			out = append(out, Rekey{ID: s.ID, OrderIndex: want})
		}
	}
	return out
}

// Rekey is one renormalization assignment.
type Rekey struct {
	ID         string
	OrderIndex float64
}
