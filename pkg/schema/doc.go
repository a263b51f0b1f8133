/*
Package schema defines the debug mirroring wire format.

A snapshot of the active stack is a nested Record, top-down: each level
carries the element kind, the branch label that activated it, and the
debug payload the bound behavior attached. Sequences carry a per-action
content list instead of a single payload. A nil Next marks the current
leaf.

The payload is plain JSON so any observer can decode it; a consumer
holding the same compiled tree can rebuild the full stack from it
without running any decision logic (see package mirror).
*/
package schema
