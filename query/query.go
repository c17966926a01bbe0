package query

// Input is a family of input cells keyed by K.
type Input[K comparable, V any] struct {
	name string
}

func NewInput[K comparable, V any](name string) *Input[K, V] {
	return &Input[K, V]{name: name}
}

func (in *Input[K, V]) Name() string {
	return in.name
}

// Set stores v for k, advances the revision and marks everything that read
// the cell stale.
func (in *Input[K, V]) Set(db *Database, k K, v V) {
	db.setInput(cellKey{query: in.name, key: k}, v)
}

// Get returns the value stored for k. Reading an input that was never set
// reports false but still records the dependency, so a later Set
// invalidates the reader.
func (in *Input[K, V]) Get(db *Database, k K) (V, bool) {
	value, ok := db.readInput(cellKey{query: in.name, key: k})
	if !ok {
		var zero V
		return zero, false
	}
	return value.(V), true
}

// MustGet is Get for inputs the caller knows are set.
func (in *Input[K, V]) MustGet(db *Database, k K) V {
	v, ok := in.Get(db, k)
	if !ok {
		panic("query: input " + cellKey{query: in.name, key: k}.String() + " is not set")
	}
	return v
}

// Derived is a family of memoized cells whose value is computed from other
// cells. The compute function must be pure: everything it depends on has
// to be read through the database it receives.
type Derived[K comparable, V any] struct {
	name    string
	compute func(db *Database, k K) V
	equal   func(a, b V) bool
}

// NewDerived declares a derived query. equal decides whether a recomputed
// value may be replaced by the cached one; a nil equal never cuts off.
func NewDerived[K comparable, V any](name string, compute func(db *Database, k K) V, equal func(a, b V) bool) *Derived[K, V] {
	return &Derived[K, V]{name: name, compute: compute, equal: equal}
}

func (d *Derived[K, V]) Name() string {
	return d.name
}

func (d *Derived[K, V]) Get(db *Database, k K) V {
	value := db.readDerived(cellKey{query: d.name, key: k},
		func(db *Database) any { return d.compute(db, k) },
		func(a, b any) bool {
			if d.equal == nil {
				return false
			}
			return d.equal(a.(V), b.(V))
		})
	return value.(V)
}
