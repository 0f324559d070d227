package adapter

import (
	"context"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/httputil"
)

// HTTPSource fetches {nodes, edges} JSON from a backend endpoint.
type HTTPSource struct {
	URL    string
	Client *httputil.Client
}

// NewHTTPSource validates rawURL and returns a source using a retrying
// client. headers are sent with every request (e.g. Authorization).
func NewHTTPSource(rawURL string, headers map[string]string) (*HTTPSource, error) {
	if err := kberrors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return &HTTPSource{URL: rawURL, Client: httputil.NewClient(headers)}, nil
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) (graph.Graph, error) {
	var g graph.Graph
	if err := s.Client.GetJSON(ctx, s.URL, &g); err != nil {
		return graph.Graph{}, err
	}
	return g, nil
}
