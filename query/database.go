// Package query implements a demand-driven, memoizing computation graph.
//
// A Database holds two kinds of cells. Input cells carry values supplied
// from outside; derived cells carry the cached result of a pure function
// of other cells together with the set of cells that function read the
// last time it ran.
//
// Setting an input marks every derived cell that transitively read it as
// stale but recomputes nothing. Reading a stale derived cell first
// revalidates the cells it depends on; only when one of them actually
// changed since the last verification is the function re-run. When the
// fresh result equals the cached one the cell keeps its old change
// revision, so cells layered on top of it are not recomputed either.
//
// A Database is not safe for concurrent use. Callers that share one
// between goroutines serialize every call.
package query

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jsa.query")

// Revision counts input writes. Every Set advances it by one.
type Revision uint64

type cellKey struct {
	query string
	key   any
}

func (k cellKey) String() string {
	return fmt.Sprintf("%s(%v)", k.query, k.key)
}

type cell struct {
	key   cellKey
	input bool

	value    any
	hasValue bool

	changedAt  Revision
	verifiedAt Revision
	stale      bool
	computing  bool

	deps       []*cell
	dependents map[*cell]struct{}

	compute func(db *Database) any
	equal   func(a, b any) bool
}

type frame struct {
	cell *cell
	deps []*cell
	seen map[*cell]struct{}
}

func (f *frame) record(c *cell) {
	if _, ok := f.seen[c]; ok {
		return
	}
	f.seen[c] = struct{}{}
	f.deps = append(f.deps, c)
}

type Database struct {
	revision Revision
	cells    map[cellKey]*cell
	active   []*frame
	stats    map[string]int
}

func NewDatabase() *Database {
	return &Database{
		cells: make(map[cellKey]*cell),
		stats: make(map[string]int),
	}
}

// Revision returns the current revision.
func (db *Database) Revision() Revision {
	return db.revision
}

// Stats returns how often each derived query has executed its function.
func (db *Database) Stats() map[string]int {
	out := make(map[string]int, len(db.stats))
	for name, n := range db.stats {
		out[name] = n
	}
	return out
}

// Executions returns how often the named derived query has run.
func (db *Database) Executions(name string) int {
	return db.stats[name]
}

func (db *Database) lookup(key cellKey, input bool) *cell {
	c, ok := db.cells[key]
	if !ok {
		c = &cell{key: key, input: input, stale: !input, dependents: make(map[*cell]struct{})}
		db.cells[key] = c
	}
	return c
}

func (db *Database) recordRead(c *cell) {
	if n := len(db.active); n > 0 {
		db.active[n-1].record(c)
	}
}

func (db *Database) setInput(key cellKey, value any) {
	if len(db.active) > 0 {
		panic(fmt.Sprintf("query: %s set while computing %s", key, db.active[len(db.active)-1].cell.key))
	}
	c := db.lookup(key, true)
	db.revision++
	c.value = value
	c.hasValue = true
	c.changedAt = db.revision
	c.verifiedAt = db.revision
	db.invalidate(c)
}

// invalidate marks every transitive dependent of c stale.
func (db *Database) invalidate(c *cell) {
	work := []*cell{c}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for dep := range cur.dependents {
			if dep.stale {
				continue
			}
			dep.stale = true
			work = append(work, dep)
		}
	}
}

func (db *Database) readInput(key cellKey) (any, bool) {
	c := db.lookup(key, true)
	db.recordRead(c)
	return c.value, c.hasValue
}

func (db *Database) readDerived(key cellKey, compute func(*Database) any, equal func(a, b any) bool) any {
	c := db.lookup(key, false)
	if c.compute == nil {
		c.compute = compute
		c.equal = equal
	}
	db.recordRead(c)
	db.refresh(c)
	return c.value
}

// refresh brings c up to date with the current revision and reports the
// revision at which its value last changed.
func (db *Database) refresh(c *cell) Revision {
	if c.input {
		return c.changedAt
	}
	if c.computing {
		panic(db.cycle(c))
	}
	if c.hasValue && !c.stale {
		c.verifiedAt = db.revision
		return c.changedAt
	}
	if c.hasValue && !db.depsChanged(c) {
		c.stale = false
		c.verifiedAt = db.revision
		return c.changedAt
	}
	db.execute(c)
	return c.changedAt
}

func (db *Database) depsChanged(c *cell) bool {
	c.computing = true
	defer func() { c.computing = false }()
	for _, dep := range c.deps {
		if db.refresh(dep) > c.verifiedAt {
			return true
		}
	}
	return false
}

func (db *Database) execute(c *cell) {
	log.Debugf("recomputing %s", c.key)
	db.stats[c.key.query]++

	f := &frame{cell: c, seen: make(map[*cell]struct{})}
	db.active = append(db.active, f)
	c.computing = true
	var value any
	func() {
		defer func() {
			c.computing = false
			db.active = db.active[:len(db.active)-1]
		}()
		value = c.compute(db)
	}()

	for _, dep := range c.deps {
		delete(dep.dependents, c)
	}
	c.deps = f.deps
	for _, dep := range c.deps {
		dep.dependents[c] = struct{}{}
	}

	if c.hasValue && c.equal(c.value, value) {
		log.Debugf("early cutoff for %s", c.key)
	} else {
		c.value = value
		c.hasValue = true
		c.changedAt = db.revision
	}
	c.stale = false
	c.verifiedAt = db.revision
}

// CycleError is the panic value raised when a derived query reads itself,
// directly or through other queries.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "query: dependency cycle: " + strings.Join(e.Path, " -> ")
}

func (db *Database) cycle(c *cell) *CycleError {
	var path []string
	start := -1
	for i, f := range db.active {
		if f.cell == c {
			start = i
			break
		}
	}
	if start >= 0 {
		for _, f := range db.active[start:] {
			path = append(path, f.cell.key.String())
		}
	}
	path = append(path, c.key.String())
	return &CycleError{Path: path}
}
