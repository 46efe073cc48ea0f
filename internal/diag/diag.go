// Package diag defines the error contract shared by the parser, resolver
// and evaluator: every diagnostic carries a Kind, a source Position and a
// Message. Parser and resolver diagnostics are batched in a Bag; runtime
// diagnostics are returned singly since the evaluator halts on the first
// one.
package diag

import (
	"fmt"
	"go/scanner"
	"sort"

	"github.com/sdecook/lumen/internal/token"
)

// Kind classifies where a Diagnostic came from.
type Kind int

const (
	Syntax Kind = iota
	Validation
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Validation:
		return "ValidationError"
	case Runtime:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// Diagnostic is a single reported error.
type Diagnostic struct {
	Kind    Kind
	Pos     token.Position
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

// New builds a Diagnostic.
func New(kind Kind, pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Bag accumulates diagnostics produced during a single parse or resolve
// pass. It wraps the standard library's go/scanner.ErrorList (the same
// idiom used by mna-nenuphar's lang/scanner package) so diagnostics sort
// by position the way every other Go compiler-style tool does; duplicates
// are kept. Since scanner.ErrorList only keeps position and message, the
// Bag carries a single Kind that applies to every entry.
type Bag struct {
	kind Kind
	list scanner.ErrorList
}

// NewBag creates a Bag whose entries are all reported with the given Kind.
func NewBag(kind Kind) *Bag {
	return &Bag{kind: kind}
}

// Add records a diagnostic at pos.
func (b *Bag) Add(pos token.Position, format string, args ...any) {
	b.list.Add(toScannerPosition(pos), fmt.Sprintf(format, args...))
}

// Len reports how many diagnostics have been recorded.
func (b *Bag) Len() int {
	return len(b.list)
}

// Diagnostics returns the accumulated diagnostics in source order.
func (b *Bag) Diagnostics() []*Diagnostic {
	b.list.Sort()
	out := make([]*Diagnostic, len(b.list))
	for i, e := range b.list {
		out[i] = &Diagnostic{
			Kind: b.kind,
			Pos: token.Position{
				File:   e.Pos.Filename,
				Line:   e.Pos.Line,
				Column: e.Pos.Column,
			},
			Message: e.Msg,
		}
	}
	return out
}

// Err returns nil if the bag is empty, or an error summarizing every
// diagnostic otherwise (sorted by position).
func (b *Bag) Err() error {
	if b.Len() == 0 {
		return nil
	}
	b.list.Sort()
	return b.list.Err()
}

func toScannerPosition(pos token.Position) scanner.Position {
	return scanner.Position{Filename: pos.File, Line: pos.Line, Column: pos.Column}
}

// Merge appends another bag's diagnostics onto b, keeping b's Kind.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.Diagnostics() {
		b.Add(d.Pos, "%s", d.Message)
	}
}

// SortedUnique returns diagnostics from multiple bags merged and sorted by
// position; useful for a CLI that wants one combined report.
func SortedUnique(bags ...*Bag) []*Diagnostic {
	var all []*Diagnostic
	for _, b := range bags {
		all = append(all, b.Diagnostics()...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		pi, pj := all[i].Pos, all[j].Pos
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
	return all
}
