package container

// HashNode is implemented by the owning struct itself (an Entry, a ZNode)
// rather than by a separate embedded header: T carries its own singly
// linked hash-chain pointer and a precomputed hash code. The table never
// hashes anything itself.
type HashNode[T any] interface {
	comparable
	HNext() T
	SetHNext(T)
	HCode() uint64
}

// EqFunc reports whether the candidate node equals key for lookup
// purposes (comparing payload fields, not identity).
type EqFunc[T any] func(candidate, key T) bool

// rehashingWork bounds how many nodes migrate from the older sub-table to
// the newer one per Insert, Lookup or Delete call, keeping tail latency stable while
// the table grows.
const rehashingWork = 128

// maxLoadFactor is the average chain length that triggers a resize.
const maxLoadFactor = 8

type htab[T HashNode[T]] struct {
	tab  []T
	mask uint64
	size uint64
}

func newHtab[T HashNode[T]](bucketCount uint64) htab[T] {
	if bucketCount == 0 || bucketCount&(bucketCount-1) != 0 {
		panic("container: bucket count must be a power of two")
	}
	return htab[T]{
		tab:  make([]T, bucketCount),
		mask: bucketCount - 1,
	}
}

func (t *htab[T]) insert(node T) {
	idx := node.HCode() & t.mask
	node.SetHNext(t.tab[idx])
	t.tab[idx] = node
	t.size++
}

func (t *htab[T]) lookup(key T, eq EqFunc[T]) T {
	var zero T
	if t.tab == nil {
		return zero
	}
	idx := key.HCode() & t.mask
	for cur := t.tab[idx]; cur != zero; cur = cur.HNext() {
		if cur.HCode() == key.HCode() && eq(cur, key) {
			return cur
		}
	}
	return zero
}

// detachFirstInBucket unlinks and returns the first node in bucket idx's
// chain. Used only by the rehashing walk, where order within a bucket is
// irrelevant.
func (t *htab[T]) detachFirstInBucket(idx uint64) T {
	var zero T
	node := t.tab[idx]
	if node == zero {
		return zero
	}
	t.tab[idx] = node.HNext()
	node.SetHNext(zero)
	t.size--
	return node
}

func (t *htab[T]) detach(key T, eq EqFunc[T]) T {
	var zero T
	if t.tab == nil {
		return zero
	}
	idx := key.HCode() & t.mask
	var prev T
	for cur := t.tab[idx]; cur != zero; cur = cur.HNext() {
		if cur.HCode() == key.HCode() && eq(cur, key) {
			if prev == zero {
				t.tab[idx] = cur.HNext()
			} else {
				prev.SetHNext(cur.HNext())
			}
			cur.SetHNext(zero)
			t.size--
			return cur
		}
		prev = cur
	}
	return zero
}

func (t *htab[T]) forEach(cb func(T) bool) bool {
	var zero T
	for _, head := range t.tab {
		for cur := head; cur != zero; {
			next := cur.HNext()
			if !cb(cur) {
				return false
			}
			cur = next
		}
	}
	return true
}

// HMap is a hash map over two sub-tables (newer, older) supporting
// progressive rehashing: growth allocates a larger "newer" table and
// migrates a bounded number of nodes from "older" into it on every
// subsequent Insert, Lookup and Delete call, instead of stopping the world
// to rehash.
//
// Lookup and delete must consult both tables during the migration window;
// iteration order across the two tables is undefined.
type HMap[T HashNode[T]] struct {
	newer      htab[T]
	older      htab[T]
	migrateIdx uint64

	// OnRehashStart, if set, is invoked each time growth kicks off a new
	// rehashing cycle. Intended for a metrics counter; nil is a valid,
	// no-op default.
	OnRehashStart func()
}

// Insert adds node to the map. The caller must have set node's hash code
// before calling.
func (m *HMap[T]) Insert(node T) {
	if m.newer.tab == nil {
		m.newer = newHtab[T](4)
	}
	m.newer.insert(node)

	if m.older.tab == nil {
		loadFactor := float64(m.newer.size) / float64(m.newer.mask+1)
		if loadFactor >= maxLoadFactor {
			m.startRehashing()
		}
	}
	m.helpRehashing()
}

// Lookup returns the node matching key by (hash code equal) && eq(...),
// or the zero value of T if absent.
func (m *HMap[T]) Lookup(key T, eq EqFunc[T]) T {
	m.helpRehashing()
	var zero T
	if node := m.newer.lookup(key, eq); node != zero {
		return node
	}
	return m.older.lookup(key, eq)
}

// Delete removes and returns the node matching key, or the zero value of
// T if absent.
func (m *HMap[T]) Delete(key T, eq EqFunc[T]) T {
	m.helpRehashing()
	var zero T
	if node := m.newer.detach(key, eq); node != zero {
		return node
	}
	return m.older.detach(key, eq)
}

// Size returns the total live node count across both sub-tables.
func (m *HMap[T]) Size() uint64 {
	return m.newer.size + m.older.size
}

// ForEach walks every node in the map. cb returning false stops the walk
// early; ForEach then also returns false.
func (m *HMap[T]) ForEach(cb func(T) bool) bool {
	if !m.newer.forEach(cb) {
		return false
	}
	return m.older.forEach(cb)
}

func (m *HMap[T]) startRehashing() {
	m.older = m.newer
	m.newer = newHtab[T]((m.older.mask + 1) * 2)
	m.migrateIdx = 0
	if m.OnRehashStart != nil {
		m.OnRehashStart()
	}
}

func (m *HMap[T]) helpRehashing() {
	if m.older.tab == nil {
		return
	}
	var zero T
	work := rehashingWork
	for work > 0 && m.older.size > 0 {
		for m.migrateIdx <= m.older.mask && m.older.tab[m.migrateIdx] == zero {
			m.migrateIdx++
		}
		if m.migrateIdx > m.older.mask {
			break
		}
		node := m.older.detachFirstInBucket(m.migrateIdx)
		if node == zero {
			continue
		}
		m.newer.insert(node)
		work--
	}
	if m.older.size == 0 {
		m.older = htab[T]{}
	}
}
