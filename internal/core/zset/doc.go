// Package zset implements the sorted-set engine underpinning zadd/zrem/
// zscore/zquery: a set of (name, score) members ordered by (score, name)
// and indexed two ways over the same nodes — a hash map by name for O(1)
// lookup, and an AVL tree by (score, name) for ordered range queries and
// rank-style seeking.
package zset
