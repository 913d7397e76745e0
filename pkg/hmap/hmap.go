package hmap

// defaultMaxLoadFactor is used when Config.MaxLoadFactor is zero.
const defaultMaxLoadFactor = 0.8

// initialSize is the bucket count a freshly created Map starts with.
const initialSize = 8

// Config supplies the capability record a Map needs: how to hash and
// compare a key view, and how to extract that key view from an object.
// Heterogeneous Maps (one per index a caller needs) are built by
// instantiating Config with a different K, a generics-based
// replacement for a function-pointer-plus-key-offset scheme.
type Config[O comparable, K any] struct {
	// Hash computes a hash of a key. It is sanitized internally; the
	// function itself need not avoid the zero value or the tombstone
	// bit.
	Hash func(key K) uint32

	// Equal reports whether two key views are equal.
	Equal func(a, b K) bool

	// KeyOf extracts the key view from an object already held by (or
	// about to be inserted into) the map.
	KeyOf func(obj O) K

	// MaxLoadFactor bounds count/size before a grow is triggered on the
	// next Insert. Zero selects defaultMaxLoadFactor.
	MaxLoadFactor float64
}

// Map is an open-addressed, Robin-Hood hashed multimap. Objects are
// borrowed: Map never allocates, copies or frees the O values it
// stores, it only holds references to them.
//
// A Map is not safe for concurrent use; callers must serialize all
// access to a given instance, per the single-owner-thread model the
// whole module assumes.
type Map[O comparable, K any] struct {
	hash    func(K) uint32
	equal   func(a, b K) bool
	keyOf   func(O) K
	maxLoad float64

	states  []uint32
	objects []O
	size    uint32
	count   uint32

	threshold uint32
}

// New creates an empty Map. It panics if any of Config's functions are
// nil — an unrecoverable configuration error, not a runtime condition a
// caller should ever need to handle at this layer.
func New[O comparable, K any](cfg Config[O, K]) *Map[O, K] {
	if cfg.Hash == nil || cfg.Equal == nil || cfg.KeyOf == nil {
		panic("hmap: Hash, Equal and KeyOf must all be set")
	}

	maxLoad := cfg.MaxLoadFactor
	if maxLoad == 0 {
		maxLoad = defaultMaxLoadFactor
	}

	m := &Map[O, K]{
		hash:    cfg.Hash,
		equal:   cfg.Equal,
		keyOf:   cfg.KeyOf,
		maxLoad: maxLoad,
		states:  make([]uint32, initialSize),
		objects: make([]O, initialSize),
		size:    initialSize,
	}
	m.threshold = thresholdFor(m.size, m.maxLoad)

	return m
}

func thresholdFor(size uint32, maxLoad float64) uint32 {
	t := uint32(float64(size) * maxLoad)
	if t == 0 {
		t = 1
	}

	return t
}

// Count returns the number of live (non-free, non-tombstoned) entries.
func (m *Map[O, K]) Count() int {
	return int(m.count)
}

// Insert adds obj to the map under the key its KeyOf function extracts.
// Duplicate keys are permitted — Insert never overwrites an existing
// entry, it is purely additive, supporting multimap semantics. The
// caller must keep the key view inside obj stable until the object is
// removed.
func (m *Map[O, K]) Insert(obj O) {
	var zero O
	if obj == zero {
		panic("hmap: Insert requires a non-zero object")
	}

	if m.count >= m.threshold {
		m.grow()
	}

	hash := sanitizeHash(m.hash(m.keyOf(obj)))
	m.place(hash, obj)
}

// place runs the Robin-Hood placement loop for an incoming (hash, obj)
// pair starting at probe distance zero. It is also used by grow, which
// already has a sanitized hash in hand and must not recompute one.
func (m *Map[O, K]) place(hash uint32, obj O) {
	mask := m.size - 1
	d := uint32(0)
	curHash := hash
	curObj := obj

	for probes := uint32(0); probes <= m.size; probes++ {
		idx := (curHash + d) & mask
		bh := m.states[idx]
		bd := probeDistance(idx, bh, m.size)

		switch {
		case isFree(bh):
			m.states[idx] = curHash
			m.objects[idx] = curObj
			m.count++

			return
		case isTombstone(bh) && d > bd:
			m.states[idx] = curHash
			m.objects[idx] = curObj
			m.count++

			return
		case d > bd:
			oldHash, oldObj := bh, m.objects[idx]
			m.states[idx] = curHash
			m.objects[idx] = curObj
			curHash, curObj = oldHash, oldObj
			d = bd + 1
		default:
			d++
		}
	}

	panic("hmap: placement loop exceeded table size; bucket array invariant violated")
}

// Lookup starts a resumable search for every live entry stored under
// key. Call Next repeatedly on the result until it returns false.
func (m *Map[O, K]) Lookup(key K) *Lookup[O, K] {
	return &Lookup[O, K]{
		m:    m,
		key:  key,
		hash: sanitizeHash(m.hash(key)),
	}
}

// Get returns the first live entry stored under key, if any. For
// unique-keyed indexes (e.g. by flow ID) this is the only accessor
// needed.
func (m *Map[O, K]) Get(key K) (O, bool) {
	return m.Lookup(key).Next()
}

// Lookup is a cursor over the entries sharing one key, replacing the
// spec's mutable probe-distance out-parameter with an iterator value
// per the design notes in spec.md §9.
type Lookup[O comparable, K any] struct {
	m    *Map[O, K]
	key  K
	hash uint32
	d    uint32
	done bool
}

// Next advances the cursor and returns the next live match, or
// (zero, false) once the chain is exhausted. The Robin-Hood early-exit
// rule — stop as soon as a slot's occupant has a strictly smaller
// probe distance than ours — applies to non-tombstoned slots only;
// tombstones never short-circuit the search.
func (l *Lookup[O, K]) Next() (O, bool) {
	var zero O
	if l.done {
		return zero, false
	}

	m := l.m
	mask := m.size - 1

	for probes := uint32(0); probes < m.size; probes++ {
		idx := (l.hash + l.d) & mask
		bh := m.states[idx]

		if isFree(bh) {
			l.done = true

			return zero, false
		}

		if !isTombstone(bh) {
			if bh == l.hash && m.equal(l.key, m.keyOf(m.objects[idx])) {
				obj := m.objects[idx]
				l.d++

				return obj, true
			}

			if probeDistance(idx, bh, m.size) < l.d {
				l.done = true

				return zero, false
			}
		}

		l.d++
	}

	l.done = true

	return zero, false
}

// Remove deletes the given object from the map. obj must be the same
// reference previously passed to Insert; Remove locates its slot by
// scanning forward from the key's ideal bucket for a stored hash and
// object match. Removing an object that was never inserted (or has
// already been removed) is a precondition violation and panics, per
// spec §7 — callers must track membership themselves if they cannot
// guarantee it.
func (m *Map[O, K]) Remove(obj O) {
	hash := sanitizeHash(m.hash(m.keyOf(obj)))
	mask := m.size - 1
	idx := idealIndex(hash, m.size)

	for probes := uint32(0); probes < m.size; probes++ {
		bh := m.states[idx]
		if isFree(bh) {
			break
		}

		if !isTombstone(bh) && bh == hash && m.objects[idx] == obj {
			m.states[idx] = bh | bucketTombstoneBit

			var zero O

			m.objects[idx] = zero
			m.count--

			return
		}

		idx = (idx + 1) & mask
	}

	panic("hmap: Remove called with an object that is not present in the map")
}

// grow doubles the bucket array and re-inserts every live slot using
// its already-sanitized stored hash: no hash recomputation, no
// recursive growth, exactly as spec.md §4.1 describes.
func (m *Map[O, K]) grow() {
	oldStates := m.states
	oldObjects := m.objects

	newSize := m.size * 2
	m.states = make([]uint32, newSize)
	m.objects = make([]O, newSize)
	m.size = newSize
	m.threshold = thresholdFor(newSize, m.maxLoad)
	m.count = 0

	for i, bh := range oldStates {
		if isFree(bh) || isTombstone(bh) {
			continue
		}

		m.place(storedHashOf(bh), oldObjects[i])
	}
}

// Stats reports diagnostic information about the current bucket array.
// It is informational only and never affects map behavior.
type Stats struct {
	Size                  uint32
	Live                  uint32
	Tombstones            uint32
	MeanProbeDistance     float64
	VarianceProbeDistance float64
}

// Stats computes live/tombstone counts and the mean and variance of
// probe distance across occupied slots. A map with no live entries
// reports a zero-value Stats rather than dividing by zero.
func (m *Map[O, K]) Stats() Stats {
	st := Stats{Size: m.size}

	var sum, sumSq float64

	for i, bh := range m.states {
		switch {
		case isFree(bh):
			continue
		case isTombstone(bh):
			st.Tombstones++
		default:
			st.Live++
			d := float64(probeDistance(uint32(i), bh, m.size))
			sum += d
			sumSq += d * d
		}
	}

	if st.Live == 0 {
		return Stats{}
	}

	mean := sum / float64(st.Live)
	st.MeanProbeDistance = mean
	st.VarianceProbeDistance = sumSq/float64(st.Live) - mean*mean

	return st
}
