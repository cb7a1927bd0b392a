// Package combo normalises caller-supplied key combinations and derives the
// canonical lookup key used by the tracker's handler registry.
package combo

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidCombo is returned when a combo (or a list of combos) has no keys.
var ErrInvalidCombo = errors.New("invalid combo")

// Key is an opaque physical key code.
type Key uint16

// Combo is a set of keys that must all be held at once. Order does not
// matter for matching and duplicates count once.
type Combo []Key

// Combos is a list of alternative combos sharing one handler.
type Combos []Combo

// Input is either a single Combo or a list of Combos.
type Input interface {
	combos() []Combo
}

func (c Combo) combos() []Combo {
	if len(c) == 0 {
		return nil
	}
	return []Combo{c}
}

func (cs Combos) combos() []Combo { return cs }

// Of builds a Combo from the given keys.
func Of(keys ...Key) Combo {
	return Combo(keys)
}

// String renders the canonical form of the combo.
func (c Combo) String() string {
	return Hash(c)
}

// ToCombos turns one combo or a list of combos into a uniform list. Empty
// input yields an empty list; an empty entry inside a list is rejected.
// The returned combos never alias the caller's slices.
func ToCombos(in Input) ([]Combo, error) {
	if in == nil {
		return nil, nil
	}
	src := in.combos()
	out := make([]Combo, 0, len(src))
	for i, c := range src {
		if len(c) == 0 {
			return nil, fmt.Errorf("%w: entry %d has no keys", ErrInvalidCombo, i)
		}
		out = append(out, slices.Clone(c))
	}
	return out, nil
}

// Hash returns the canonical key of c: codes sorted numerically, duplicates
// dropped, joined with ",". Permutations of the same keys hash equally.
func Hash(c Combo) string {
	sorted := slices.Clone(c)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var b strings.Builder
	for i, k := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(k), 10))
	}
	return b.String()
}

// Map returns a copy of c with fn applied to every key.
func (c Combo) Map(fn func(Key) Key) Combo {
	out := make(Combo, len(c))
	for i, k := range c {
		out[i] = fn(k)
	}
	return out
}
