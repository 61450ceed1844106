/*
Package nodeid provides the structured location of a resource instance
within its graph.

An Address is the sequence of segments leading from a root instance to the
instance itself, rendered as `Node[0].Socket[1].Core[3]`. Each segment carries
the segment name (the instance's type or explicit name) and its index among
the siblings created from the same description. An index of -1 means the
segment has none, which is how description-level locations such as
`with[1].count` are rendered without brackets.

Addresses are values: Child and Parent return new addresses and never alias
the receiver's backing array.
*/
package nodeid
