/*
Package mirror reconstructs a remote engine's active stack from debug
snapshots, without running any decision or action logic.

A Replica holds its own copy of the compiled tree and a subscription to
the snapshot stream. For each message it looks up, level by level, the
child keyed by the record's activation reason and pushes it, yielding a
stack equivalent to the producer's. Byte-identical repeats are ignored.

A malformed message (abstract element, stack extending past a leaf,
unknown activation reason) invalidates the replica's state: it exposes
"no valid state" and waits for the next message rather than fabricating
a fallback stack.
*/
package mirror
