/*
Package domain contains the core domain models for the Arbor engine.

It defines the typed tree a definition compiles into and the runtime
stack entries the execution engine maintains. This package is kept pure
and free of external dependencies like I/O or transports, following
Hexagonal Architecture principles.

# Key Entities

  - Element: a node in the behavior tree (Decision, Action, or Sequence).
  - Tree: a compiled definition with a single root element.
  - StackEntry: one level of the active root-to-leaf path, paired with
    the branch label that activated it.
*/
package domain
