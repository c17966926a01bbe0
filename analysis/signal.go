package analysis

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/jsa/js/syntax"
)

var ErrOverlappingReplacements = errors.New("replacements overlap")

// Diagnostic is a problem reported by an analyzer.
type Diagnostic struct {
	Range   syntax.TextRange
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Range, d.Message)
}

// Replacement swaps the text of Old for the text of New. New is usually
// another element of the same tree or a token made with syntax.MakeToken.
type Replacement struct {
	Old syntax.Element
	New syntax.Element
}

func (r Replacement) Range() syntax.TextRange {
	return r.Old.Range()
}

func (r Replacement) Text() string {
	return r.New.Text()
}

// Action is a fix or refactoring: a titled set of replacements plus the
// diagnostics that motivated it, if any.
type Action struct {
	Title        string
	Replacements []Replacement
	Diagnostics  []Diagnostic
}

// IsFix reports whether the action repairs a reported problem.
func (a Action) IsFix() bool {
	return len(a.Diagnostics) > 0
}

// Signal is everything analyzers report for one file. Diagnostics and
// actions keep the order analyzers produced them in.
type Signal struct {
	Diagnostics []Diagnostic
	Actions     []Action
}

func (s *Signal) Merge(other Signal) {
	s.Diagnostics = append(s.Diagnostics, other.Diagnostics...)
	s.Actions = append(s.Actions, other.Actions...)
}

// Equal compares by content: ranges, messages, titles and replacement texts.
func (s Signal) Equal(other Signal) bool {
	return slices.Equal(s.Diagnostics, other.Diagnostics) &&
		slices.EqualFunc(s.Actions, other.Actions, func(a, b Action) bool {
			return a.Title == b.Title &&
				slices.Equal(a.Diagnostics, b.Diagnostics) &&
				slices.EqualFunc(a.Replacements, b.Replacements, func(x, y Replacement) bool {
					return x.Range() == y.Range() && x.Text() == y.Text()
				})
		})
}

type edit struct {
	rng  syntax.TextRange
	text string
}

// ApplyReplacements returns text with every replacement applied. All
// ranges refer to the original text and must not overlap.
func ApplyReplacements(text string, replacements []Replacement) (string, error) {
	edits := make([]edit, 0, len(replacements))
	for _, r := range replacements {
		edits = append(edits, edit{rng: r.Range(), text: r.Text()})
	}
	return applyEdits(text, edits)
}

func applyEdits(text string, edits []edit) (string, error) {
	slices.SortStableFunc(edits, func(a, b edit) int {
		return a.rng.Start - b.rng.Start
	})
	var sb strings.Builder
	offset := 0
	for _, e := range edits {
		if e.rng.Start < offset {
			return "", fmt.Errorf("%w: %s", ErrOverlappingReplacements, e.rng)
		}
		if e.rng.End > len(text) {
			return "", fmt.Errorf("replacement %s is outside the text (length %d)", e.rng, len(text))
		}
		sb.WriteString(text[offset:e.rng.Start])
		sb.WriteString(e.text)
		offset = e.rng.End
	}
	sb.WriteString(text[offset:])
	return sb.String(), nil
}

// ApplyFixes applies every fix action of s, in order, skipping actions
// that overlap one already taken. It returns the new text and the number
// of actions applied.
func ApplyFixes(text string, s Signal) (string, int, error) {
	var taken []edit
	applied := 0
	for _, action := range s.Actions {
		if !action.IsFix() {
			continue
		}
		var edits []edit
		conflict := false
		for _, r := range action.Replacements {
			e := edit{rng: r.Range(), text: r.Text()}
			for _, t := range slices.Concat(taken, edits) {
				if overlaps(t.rng, e.rng) {
					conflict = true
				}
			}
			edits = append(edits, e)
		}
		if conflict {
			continue
		}
		taken = append(taken, edits...)
		applied++
	}
	out, err := applyEdits(text, taken)
	if err != nil {
		return "", 0, err
	}
	return out, applied, nil
}

// overlaps is strict: adjacent ranges do not overlap, but two insertions
// at the same offset do.
func overlaps(a, b syntax.TextRange) bool {
	if a.IsEmpty() && b.IsEmpty() {
		return a.Start == b.Start
	}
	return a.Start < b.End && b.Start < a.End
}
