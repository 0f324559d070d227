// Package graph provides the data model and serialization types for knowledge graphs.
//
// This package defines the canonical wire format for kbgraph's graph data,
// used for JSON files, API responses, MongoDB documents, caching and the
// interactive explorer.
//
// # Core Types
//
//   - [Graph]: Node-link format supplied wholesale by a data adapter
//   - [Node], [Edge]: Shared structural types
//   - [NodeType]: Closed variant of node kinds (document, topic, person, technology, insight)
//   - [Position]: 2-D coordinates assigned by the layout engine
//   - [Index]: Arena of nodes keyed by ID plus the edge list
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "label": "Onboarding", "type": "document"}],
//	  "edges": [{"id": "e1", "source": "a", "target": "b", "weight": 0.8}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("kb.json")     // File → Graph
//	graph.WriteGraphFile(g, "out.json")        // Graph → File
//	data, _ := graph.MarshalGraph(g)           // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)    // []byte → Graph
//
// # Adjacency
//
// Relationships are never stored as object references. [Index] keeps nodes in
// a map keyed by ID and scans the edge list for degree and incidence queries.
// Edges whose source or target is missing are excluded from every query; they
// are reported by [Index.DroppedEdges] but never cause an error.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes. An
// [Index] is immutable after [NewIndex] returns.
package graph
