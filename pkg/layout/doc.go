// Package layout computes 2-D node positions for knowledge graphs with a
// force-directed simulation.
//
// # Overview
//
// [Compute] takes a node list, an edge list and the canvas size and returns
// positioned copies of the nodes. The simulation runs in three phases:
//
//  1. Seeding: nodes are spread on a circle of radius 0.35·min(width, height)
//     around the center, each with a small deterministic jitter drawn from a
//     PCG source. Nodes with a prior position (see [WithPrior]) start there.
//  2. Relaxation: for a fixed number of iterations every node pair repels
//     with a force inversely proportional to the squared distance (floored at
//     MinDistance), every edge pulls its endpoints together proportionally to
//     its weight and to how far they are beyond the rest length, and a weak
//     gravity keeps disconnected components on screen. Moves are capped by a
//     temperature that cools linearly to zero.
//  3. Clamping: after every step positions are clamped into [Bounds], which
//     leaves a margin of [styles.MaxRadius] plus padding so circles are never
//     clipped.
//
// Edges referencing unknown node IDs do not contribute any force.
//
// # Determinism
//
// Identical inputs, canvas and options produce identical output. The only
// randomness is the seeded jitter source (default seed 42, see [WithSeed]).
//
// # Cost
//
// A step is O(n²) in the node count. With the default 300 iterations a
// graph of a few hundred nodes lays out in well under a second, which is
// the size this package targets.
package layout
