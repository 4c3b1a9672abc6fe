// Package policy holds the row-level authorization matrix and the
// capability-checked repositories that enforce it.
//
// Evaluation follows the usual row-level security rules: every policy is
// permissive and policies on the same table and operation are OR-ed together.
// A table with no policy for an operation denies it. USING gates rows that
// already exist (select, update, delete) and WITH CHECK gates the row version
// being written (insert, update). A policy without a WITH CHECK clause checks
// new rows with its USING clause.
package policy

import (
	"strings"

	"marketplace/internal/domain/entity"
)

// Operation is a bit set of statement kinds a policy applies to.
type Operation uint8

const (
	Select Operation = 1 << iota
	Insert
	Update
	Delete

	All = Select | Insert | Update | Delete
)

// String renders the operation the way it appears in a policy definition.
func (op Operation) String() string {
	if op == All {
		return "ALL"
	}

	var parts []string
	for _, named := range []struct {
		op   Operation
		name string
	}{
		{Select, "SELECT"},
		{Insert, "INSERT"},
		{Update, "UPDATE"},
		{Delete, "DELETE"},
	} {
		if op&named.op != 0 {
			parts = append(parts, named.name)
		}
	}

	return strings.Join(parts, "|")
}

// Predicate evaluates a row against the requesting principal.
type Predicate[T any] func(principal entity.Principal, row *T) bool

// Policy is a single named permissive rule on a table.
type Policy[T any] struct {
	Name      string
	For       Operation
	Using     Predicate[T]
	WithCheck Predicate[T]
}

func (p Policy[T]) appliesTo(op Operation) bool {
	return p.For&op != 0
}

func (p Policy[T]) check() Predicate[T] {
	if p.WithCheck != nil {
		return p.WithCheck
	}

	return p.Using
}

// Set is every policy defined on one table.
type Set[T any] struct {
	Table    string
	Policies []Policy[T]
}

// Using reports whether an existing row is reachable by op for the principal.
func (s Set[T]) Using(op Operation, principal entity.Principal, row *T) bool {
	if row == nil {
		return false
	}

	for _, p := range s.Policies {
		if p.appliesTo(op) && p.Using != nil && p.Using(principal, row) {
			return true
		}
	}

	return false
}

// Check reports whether a new row version may be written by op for the principal.
func (s Set[T]) Check(op Operation, principal entity.Principal, row *T) bool {
	if row == nil {
		return false
	}

	for _, p := range s.Policies {
		if !p.appliesTo(op) {
			continue
		}
		if pred := p.check(); pred != nil && pred(principal, row) {
			return true
		}
	}

	return false
}

// Filter keeps the rows the principal may select.
func (s Set[T]) Filter(principal entity.Principal, rows []*T) []*T {
	visible := make([]*T, 0, len(rows))
	for _, row := range rows {
		if s.Using(Select, principal, row) {
			visible = append(visible, row)
		}
	}

	return visible
}
