// Package container provides the low-level data structures the event-loop
// core is built on: a doubly linked list for the idle-connection LRU, a
// hash table with progressive rehashing for the keyspace and the ZSet name
// index, and an AVL tree for ZSet's by-(score, name) ordering.
//
// All three are generic over the owning pointer type (a *store.Entry, a
// *zset.ZNode, a *conn.Connection) rather than operating on an embedded
// node header: the owner implements a small link-management interface
// (HashNode, TreeNode, LinkNode) itself, so no separate node allocation
// and no container-of recovery is needed to get back from a link to its
// owner.
package container
