// Package core implements actor paths for the actor runtime.
//
// A path is an immutable, tree-structured identifier. Every runtime owns
// one RootPath anchored at its node Address; every actor is named by a
// ChildPath derived from its parent's path. Paths render to a canonical
// string (optionally re-addressed as seen from another node), compare
// under a total order so they can live in sorted containers, and are
// safe for concurrent use without locking.
//
// The Registry keeps the paths currently allocated in one runtime and
// answers supervision-tree queries over them.
package core
