// Package rspec builds a resource graph from a nested resource description.
//
// The input is a generic tree (see package tree). Each level names a type,
// a count and optionally the child levels it contains:
//
//	type: Node
//	with:
//	  - type: Socket
//	    count: 2
//	    with:
//	      type: Core
//	      count: 4
//
// New first decodes the whole tree into Descriptions, so an invalid tree
// never produces a partial graph. It then creates a single root instance and,
// for every child level, as many sibling instances as the level's count
// progression yields (see Fanout). Instances get sequential IDs in
// depth-first pre-order and one external identifier each.
//
// Two extensions shape how instances are created:
//
//   - unit: the level becomes one pooled instance whose Size is the fan-out,
//     e.g. {type: Memory, count: 15000, unit: MB}.
//   - names: a hostlist such as "hype[201-354]" creates one named instance
//     per expanded name. It replaces count.
package rspec
