package adapter

import (
	"context"
	"net/url"
	"os"
	"strings"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
)

// Source supplies a knowledge graph wholesale. Implementations return the
// raw graph; validation happens once, in the Loader.
type Source interface {
	// Name identifies the source in logs and snapshot keys.
	Name() string
	// Fetch returns the current graph.
	Fetch(ctx context.Context) (graph.Graph, error)
}

// SourceSample is the source spec that selects the built-in sample graph.
const SourceSample = "sample"

// ParseSource builds a Source from a spec string:
//
//	sample                          built-in sample graph
//	https://kb.example.com/graph    HTTPSource
//	mongodb://host:27017/kb         MongoSource (database from the path)
//	./graph.json                    FileSource
//
// Mongo sources connect eagerly; the caller owns closing them.
func ParseSource(ctx context.Context, spec string, headers map[string]string) (Source, error) {
	switch {
	case spec == "" || spec == SourceSample:
		return NewStaticSource(SourceSample, graph.SampleGraph()), nil
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		return NewHTTPSource(spec, headers)
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		u, err := url.Parse(spec)
		if err != nil {
			return nil, kberrors.Wrap(kberrors.ErrCodeInvalidSource, err, "parse MongoDB URI")
		}
		return NewMongoSource(ctx, MongoConfig{URI: spec, Database: strings.Trim(u.Path, "/")})
	default:
		return NewFileSource(spec), nil
	}
}

// =============================================================================
// Static Source
// =============================================================================

// StaticSource serves a fixed graph.
type StaticSource struct {
	name string
	g    graph.Graph
}

// NewStaticSource returns a source that always yields g.
func NewStaticSource(name string, g graph.Graph) *StaticSource {
	return &StaticSource{name: name, g: g}
}

func (s *StaticSource) Name() string { return s.name }

// Fetch returns a copy of the graph so callers cannot mutate the source.
func (s *StaticSource) Fetch(ctx context.Context) (graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return graph.Graph{}, err
	}
	return graph.Graph{
		Nodes: graph.CloneNodes(s.g.Nodes),
		Edges: append([]graph.Edge(nil), s.g.Edges...),
	}, nil
}

// =============================================================================
// File Source
// =============================================================================

// FileSource reads a graph JSON file on every fetch.
type FileSource struct {
	Path string
}

// NewFileSource returns a source reading path.
func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Fetch(ctx context.Context) (graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return graph.Graph{}, err
	}
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return graph.Graph{}, kberrors.Wrap(kberrors.ErrCodeFileNotFound, err, "graph file %s", s.Path)
	}
	g, err := graph.ReadGraphFile(s.Path)
	if err != nil {
		return graph.Graph{}, kberrors.Wrap(kberrors.ErrCodeInvalidGraph, err, "read %s", s.Path)
	}
	return g, nil
}
