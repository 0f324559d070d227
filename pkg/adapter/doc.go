// Package adapter supplies knowledge graphs to the visualization engine.
//
// A [Source] returns a raw {nodes, edges} graph. The [Loader] wraps a
// source with a timeout, boundary validation ([Sanitize]) and a fallback
// chain, so loading never fails in the user-visible path:
//
//  1. the source's current graph
//  2. the last good snapshot of that source, if a snapshot cache is set (Stale)
//  3. the built-in sample graph (Demo)
//
// Sources:
//
//   - [HTTPSource]: GET JSON from a backend, with retry
//   - [FileSource]: a graph JSON file
//   - [MongoSource]: node and edge collections in MongoDB
//   - [StaticSource]: a fixed in-memory graph
//
// [ParseSource] picks one from a spec string such as a URL or a path.
package adapter
