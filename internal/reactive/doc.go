// Package reactive is a small push/pull dataflow graph.
//
// Nodes are created with an explicit dependency list, so the creation order
// of a Graph is always a topological order and cycles cannot be expressed.
// Writing an Input marks every node downstream of it stale; stale nodes
// recompute lazily on Get or eagerly on Flush. A Graph is not safe for
// concurrent use; owners serialize access.
package reactive
