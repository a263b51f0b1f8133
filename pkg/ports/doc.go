/*
Package ports defines the interfaces between the Arbor core and its
collaborators: the behavior bindings supplied by the integrator and the
transport used to publish debug snapshots.

Following Hexagonal Architecture, the core depends only on these
interfaces; adapters (redis, in-memory, HTTP) implement them.
*/
package ports
