// Package query composes optional filter clauses into a single condition.
//
// A Predicate carries two equivalent renderings of the same clause: an
// in-memory matcher used against loaded entities and a goqu expression used to
// push the clause down to PostgreSQL. The zero Predicate is the identity: it
// matches everything and contributes no SQL.
package query

import (
	"cmp"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

// Dialect is the goqu dialect every statement is rendered with.
const Dialect = "postgres"

// Predicate is a boolean condition over T.
type Predicate[T any] struct {
	match func(T) bool
	expr  exp.Expression
}

// New builds a predicate from its in-memory and SQL forms.
func New[T any](match func(T) bool, expr exp.Expression) Predicate[T] {
	return Predicate[T]{match: match, expr: expr}
}

// Identity returns the always-true predicate.
func Identity[T any]() Predicate[T] {
	return Predicate[T]{}
}

func (p Predicate[T]) IsIdentity() bool {
	return p.match == nil && p.expr == nil
}

// Matches evaluates the predicate against v.
func (p Predicate[T]) Matches(v T) bool {
	if p.match == nil {
		return true
	}
	return p.match(v)
}

// Expression returns the SQL form, or nil for the identity.
func (p Predicate[T]) Expression() exp.Expression {
	return p.expr
}

// And conjoins predicates. Identities are dropped, so And() and And(Identity)
// are both the identity.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if !p.IsIdentity() {
			active = append(active, p)
		}
	}

	switch len(active) {
	case 0:
		return Identity[T]()
	case 1:
		return active[0]
	}

	exprs := make([]exp.Expression, 0, len(active))
	for _, p := range active {
		if p.expr != nil {
			exprs = append(exprs, p.expr)
		}
	}

	var expr exp.Expression
	if len(exprs) > 0 {
		expr = goqu.And(exprs...)
	}

	return Predicate[T]{
		match: func(v T) bool {
			for _, p := range active {
				if !p.Matches(v) {
					return false
				}
			}
			return true
		},
		expr: expr,
	}
}

// Optional maps an absent (nil) filter value to the identity and a present
// one to build(*v).
func Optional[T, V any](v *V, build func(V) Predicate[T]) Predicate[T] {
	if v == nil {
		return Identity[T]()
	}
	return build(*v)
}

// OptionalSet treats an empty set as absent.
func OptionalSet[T, V any](vs []V, build func([]V) Predicate[T]) Predicate[T] {
	if len(vs) == 0 {
		return Identity[T]()
	}
	return build(vs)
}

// In tests membership of get(v) in values.
func In[T any, V comparable](col string, get func(T) V, values []V) Predicate[T] {
	set := make(map[V]struct{}, len(values))
	args := make([]any, 0, len(values))
	for _, v := range values {
		if _, dup := set[v]; dup {
			continue
		}
		set[v] = struct{}{}
		args = append(args, sqlValue(v))
	}

	return New(func(t T) bool {
		_, ok := set[get(t)]
		return ok
	}, goqu.I(col).In(args))
}

// Eq tests get(v) == value.
func Eq[T any, V comparable](col string, get func(T) V, value V) Predicate[T] {
	return New(func(t T) bool {
		return get(t) == value
	}, goqu.I(col).Eq(sqlValue(value)))
}

// Lte tests get(v) <= bound.
func Lte[T any, V cmp.Ordered](col string, get func(T) V, bound V) Predicate[T] {
	return New(func(t T) bool {
		return get(t) <= bound
	}, goqu.I(col).Lte(bound))
}

// Gte tests get(v) >= bound.
func Gte[T any, V cmp.Ordered](col string, get func(T) V, bound V) Predicate[T] {
	return New(func(t T) bool {
		return get(t) >= bound
	}, goqu.I(col).Gte(bound))
}

// Between tests min <= get(v) <= max. A nil bound leaves that side open;
// two nil bounds yield the identity.
func Between[T any, V cmp.Ordered](col string, get func(T) V, lower, upper *V) Predicate[T] {
	return And(
		Optional(lower, func(b V) Predicate[T] { return Gte(col, get, b) }),
		Optional(upper, func(b V) Predicate[T] { return Lte(col, get, b) }),
	)
}

// Filter returns the members of items matching p, preserving order.
func Filter[T any](items []T, p Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Where attaches p to ds. The identity leaves ds untouched.
func Where[T any](ds *goqu.SelectDataset, p Predicate[T]) *goqu.SelectDataset {
	if p.expr == nil {
		return ds
	}
	return ds.Where(p.expr)
}

// sqlValue renders Stringer-backed identifiers (uuid.UUID) as text so the
// driver can coerce them to the column type.
func sqlValue(v any) any {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return v
}
