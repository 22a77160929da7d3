package container

// LinkNode is implemented by the owning struct itself (a Connection)
// rather than by an embedded header: T carries its own prev/next
// pointers. A node whose LNext points to itself is empty/detached —
// including a sentinel head used purely as a circular anchor.
type LinkNode[T any] interface {
	comparable
	LNext() T
	SetLNext(T)
	LPrev() T
	SetLPrev(T)
}

// ListInit turns node into an empty circular list of one (a sentinel
// head, or a freshly detached element).
func ListInit[T LinkNode[T]](node T) {
	node.SetLPrev(node)
	node.SetLNext(node)
}

// ListEmpty reports whether node, used as a head, has no other members.
func ListEmpty[T LinkNode[T]](node T) bool {
	return node.LNext() == node
}

// ListDetach removes node from whatever list it is in and re-initializes
// it as an empty list of one. Safe to call on an already-detached node.
func ListDetach[T LinkNode[T]](node T) {
	node.LPrev().SetLNext(node.LNext())
	node.LNext().SetLPrev(node.LPrev())
	node.SetLPrev(node)
	node.SetLNext(node)
}

// ListInsertBefore splices node into the list immediately before anchor.
func ListInsertBefore[T LinkNode[T]](anchor, node T) {
	prev := anchor.LPrev()
	prev.SetLNext(node)
	node.SetLPrev(prev)
	node.SetLNext(anchor)
	anchor.SetLPrev(node)
}
