// Package pkg holds the libraries behind kbgraph, a knowledge-graph
// visualization engine.
//
// # Data Flow
//
//	Source (HTTP API, MongoDB, JSON file, sample)
//	         ↓
//	    [adapter] validate, filter, fall back to the sample graph
//	         ↓
//	    [layout] force-directed positions inside the canvas
//	         ↓
//	    [interaction] hover, selection, pan and zoom state
//	         ↓
//	    [render/scene] resolved colors, sizes and highlight
//	         ↓
//	    [render/sink] SVG, PNG, PDF, JSON, DOT
//
// [pipeline] runs these steps with caching ([cache]). [viewport] reruns the
// layout after a debounced resize, and [session] plus [server] expose live
// surfaces over HTTP.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, adapter.NewStaticSource("sample", graph.SampleGraph()), pipeline.Options{
//		Formats: []string{"svg"},
//	})
//	os.WriteFile("graph.svg", res.Artifacts["svg"], 0o644)
package pkg
