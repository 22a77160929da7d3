package zset

import (
	"bytes"

	"github.com/spaolacci/murmur3"

	"github.com/nilkv/nilkv/internal/core/container"
)

// ZSet maps member names to scores, with an ordered view by (score, name)
// lexicographic on ties. It keeps two indices over the same ZNodes: a
// hash map by name for O(1) lookup, and an AVL tree by (score, name) for
// ordered range queries and rank-based seeking.
type ZSet struct {
	index container.HMap[*ZNode]
	root  *ZNode
}

// New returns an empty ZSet.
func New() *ZSet {
	return &ZSet{}
}

// Empty is a shared, immutable empty ZSet returned by the command layer
// when a read-only ZSet command targets a missing key. Callers must never
// mutate it.
var Empty = New()

func hashName(name []byte) uint64 {
	return murmur3.Sum64(name)
}

func eqByName(a, b *ZNode) bool {
	return bytes.Equal(a.Name, b.Name)
}

func compareZNode(a, b *ZNode) int {
	switch {
	case a.Score < b.Score:
		return -1
	case a.Score > b.Score:
		return 1
	default:
		return bytes.Compare(a.Name, b.Name)
	}
}

// Len returns the number of members.
func (z *ZSet) Len() uint64 {
	return z.index.Size()
}

// Lookup returns the ZNode named name, or nil if absent.
func (z *ZSet) Lookup(name []byte) *ZNode {
	key := &ZNode{Name: name, hcode: hashName(name)}
	return z.index.Lookup(key, eqByName)
}

// Insert creates a member with the given name and score, or updates the
// score of an existing one. It reports whether a new member was created.
func (z *ZSet) Insert(name []byte, score float64) bool {
	hcode := hashName(name)
	key := &ZNode{Name: name, hcode: hcode}
	if existing := z.index.Lookup(key, eqByName); existing != nil {
		z.updateScore(existing, score)
		return false
	}
	node := newZNode(name, score, hcode)
	z.index.Insert(node)
	z.treeInsert(node)
	return true
}

func (z *ZSet) updateScore(node *ZNode, score float64) {
	if node.Score == score {
		return
	}
	z.root = container.AVLDel[*ZNode](node)
	node.Score = score
	z.treeInsert(node)
}

func (z *ZSet) treeInsert(node *ZNode) {
	if z.root == nil {
		container.AVLInit[*ZNode](node)
		z.root = node
		return
	}
	cur := z.root
	for {
		if compareZNode(node, cur) < 0 {
			if cur.AVLLeft() == nil {
				container.AVLInit[*ZNode](node)
				node.SetAVLParent(cur)
				cur.SetAVLLeft(node)
				break
			}
			cur = cur.AVLLeft()
		} else {
			if cur.AVLRight() == nil {
				container.AVLInit[*ZNode](node)
				node.SetAVLParent(cur)
				cur.SetAVLRight(node)
				break
			}
			cur = cur.AVLRight()
		}
	}
	z.root = container.AVLFix[*ZNode](node)
}

// Delete removes node from both indices. node must belong to z.
func (z *ZSet) Delete(node *ZNode) {
	z.index.Delete(node, eqByName)
	z.root = container.AVLDel[*ZNode](node)
}

// Clear releases every member, resetting z to empty.
func (z *ZSet) Clear() {
	onRehash := z.index.OnRehashStart
	z.index = container.HMap[*ZNode]{OnRehashStart: onRehash}
	z.root = nil
}

// OnRehash registers fn to be called each time this ZSet's name index
// starts a progressive rehashing cycle. Intended for a metrics counter.
func (z *ZSet) OnRehash(fn func()) {
	z.index.OnRehashStart = fn
}

// SeekGE returns the smallest member whose (score, name) is greater than
// or equal to (score, name) in the tree's ordering, or nil if none.
func (z *ZSet) SeekGE(score float64, name []byte) *ZNode {
	key := &ZNode{Score: score, Name: name}
	cur := z.root
	var best *ZNode
	for cur != nil {
		if compareZNode(cur, key) >= 0 {
			best = cur
			cur = cur.AVLLeft()
		} else {
			cur = cur.AVLRight()
		}
	}
	return best
}

// Offset delegates to the rank-based AVL walk starting at node.
func (z *ZSet) Offset(node *ZNode, offset int64) *ZNode {
	return container.AVLOffset[*ZNode](node, offset)
}

// Query positions via SeekGE(score, name), advances by offset, then
// collects up to limit members in ascending order. A non-positive limit
// yields an empty (nil) slice.
func (z *ZSet) Query(score float64, name []byte, offset, limit int64) []*ZNode {
	if limit <= 0 {
		return nil
	}
	node := z.SeekGE(score, name)
	if node == nil {
		return nil
	}
	if offset != 0 {
		node = z.Offset(node, offset)
	}
	result := make([]*ZNode, 0, limit)
	for node != nil && int64(len(result)) < limit {
		result = append(result, node)
		node = z.Offset(node, 1)
	}
	return result
}
