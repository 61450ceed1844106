// Package registry interns resource type names.
//
// Every instance in a resource graph refers to its type through a small
// TypeHandle instead of carrying the name. The registry is owned by exactly
// one ResourceSpec, grows while the graph is built, and never shrinks.
// Two types are the same type if and only if their names are equal.
package registry
