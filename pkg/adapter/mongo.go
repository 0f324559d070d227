package adapter

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
)

// Default collection names.
const (
	DefaultNodesCollection = "kg_nodes"
	DefaultEdgesCollection = "kg_edges"
	DefaultMongoLimit      = 5000
)

// MongoConfig configures a MongoSource.
type MongoConfig struct {
	URI             string        `toml:"uri"`
	Database        string        `toml:"database"`
	NodesCollection string        `toml:"nodes_collection"`
	EdgesCollection string        `toml:"edges_collection"`
	Limit           int64         `toml:"limit"` // per collection
	ConnectTimeout  time.Duration `toml:"connect_timeout"`
}

// MongoSource reads nodes and edges from two collections whose documents
// use the graph package's bson field names.
type MongoSource struct {
	client *mongo.Client
	cfg    MongoConfig
}

// NewMongoSource connects to MongoDB and pings the primary.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if err := kberrors.ValidateMongoURI(cfg.URI); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		return nil, kberrors.New(kberrors.ErrCodeInvalidSource, "MongoDB database name is required")
	}
	if cfg.NodesCollection == "" {
		cfg.NodesCollection = DefaultNodesCollection
	}
	if cfg.EdgesCollection == "" {
		cfg.EdgesCollection = DefaultEdgesCollection
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultMongoLimit
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, kberrors.Wrap(kberrors.ErrCodeNetwork, err, "connect to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, kberrors.Wrap(kberrors.ErrCodeNetwork, err, "ping MongoDB")
	}
	return &MongoSource{client: client, cfg: cfg}, nil
}

func (s *MongoSource) Name() string {
	return fmt.Sprintf("mongodb:%s/%s+%s", s.cfg.Database, s.cfg.NodesCollection, s.cfg.EdgesCollection)
}

func (s *MongoSource) Fetch(ctx context.Context) (graph.Graph, error) {
	db := s.client.Database(s.cfg.Database)
	find := options.Find().SetLimit(s.cfg.Limit)

	var g graph.Graph
	if err := findAll(ctx, db.Collection(s.cfg.NodesCollection), find, &g.Nodes); err != nil {
		return graph.Graph{}, err
	}
	if err := findAll(ctx, db.Collection(s.cfg.EdgesCollection), find, &g.Edges); err != nil {
		return graph.Graph{}, err
	}
	return g, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, opts *options.FindOptions, out any) error {
	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return kberrors.Wrap(kberrors.ErrCodeNetwork, err, "query %s", coll.Name())
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return kberrors.Wrap(kberrors.ErrCodeInvalidGraph, err, "decode %s", coll.Name())
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
