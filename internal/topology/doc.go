// Package topology stores the containment graph of resource instances.
//
// # Why an Arena
//
// Instances are stored in a slice owned by the Graph and refer to each other
// by Index. Parent and child relations are two parallel tables, so the graph
// has no pointer cycles and can be copied, walked or serialized without any
// bookkeeping.
//
// # Lifecycle
//
// A Graph is:
//  1. **Created** by the resource spec builder,
//  2. **Populated** while the description tree is expanded (AddNode, AddEdge),
//  3. **Read-only** afterwards. Consumers such as a scheduler should hold it
//     through the Reader interface.
//
// A Graph is not safe for concurrent mutation. Concurrent reads after the
// build are safe because nothing writes to it any more.
//
// # Invariants
//
// The graph is a forest: it is acyclic and every non-root node has exactly
// one parent. AddEdge rejects any edge that would break either property.
package topology
