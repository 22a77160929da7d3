package zset

import "github.com/nilkv/nilkv/internal/core/container"

// ZNode is one member of a ZSet: a name, a score, and the two link sets
// that let it live in both the by-name hash index and the by-(score,
// name) AVL index at once. A ZNode is owned by exactly one ZSet and is
// never shared.
type ZNode struct {
	Name  []byte
	Score float64
	hcode uint64

	hnext *ZNode

	avlParent *ZNode
	avlLeft   *ZNode
	avlRight  *ZNode
	avlHeight uint32
	avlCnt    uint32
}

func newZNode(name []byte, score float64, hcode uint64) *ZNode {
	n := &ZNode{
		Name:  append([]byte(nil), name...),
		Score: score,
		hcode: hcode,
	}
	container.AVLInit[*ZNode](n)
	return n
}

// HashNode, implemented so ZNode can live directly in a container.HMap.

func (n *ZNode) HNext() *ZNode     { return n.hnext }
func (n *ZNode) SetHNext(m *ZNode) { n.hnext = m }
func (n *ZNode) HCode() uint64     { return n.hcode }

// TreeNode, implemented so ZNode can live directly in the AVL index.

func (n *ZNode) AVLParent() *ZNode     { return n.avlParent }
func (n *ZNode) SetAVLParent(m *ZNode) { n.avlParent = m }
func (n *ZNode) AVLLeft() *ZNode       { return n.avlLeft }
func (n *ZNode) SetAVLLeft(m *ZNode)   { n.avlLeft = m }
func (n *ZNode) AVLRight() *ZNode      { return n.avlRight }
func (n *ZNode) SetAVLRight(m *ZNode)  { n.avlRight = m }
func (n *ZNode) AVLHeight() uint32     { return n.avlHeight }
func (n *ZNode) SetAVLHeight(h uint32) { n.avlHeight = h }
func (n *ZNode) AVLCnt() uint32        { return n.avlCnt }
func (n *ZNode) SetAVLCnt(c uint32)    { n.avlCnt = c }
