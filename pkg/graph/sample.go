package graph

import "fmt"

// SampleGraph returns a small, fixed knowledge graph used when no data source
// is reachable. It covers every node type and carries similarity-labelled edges
// so every visual feature is exercised.
func SampleGraph() Graph {
	nodes := []Node{
		{ID: "doc-onboarding", Label: "Engineering Onboarding Guide", Type: TypeDocument, DocumentCount: 1,
			Summary: "How new engineers get access, set up tooling and ship a first change.",
			Topics:  []string{"onboarding", "tooling"}},
		{ID: "doc-incident", Label: "Incident Response Runbook", Type: TypeDocument, DocumentCount: 1,
			Summary: "Paging, severity levels and the post-incident review template.",
			Topics:  []string{"operations", "reliability"}},
		{ID: "doc-arch", Label: "Search Service Architecture", Type: TypeDocument, DocumentCount: 1,
			Summary: "Indexing pipeline, query path and ranking of the internal search service.",
			Topics:  []string{"search", "architecture"}},
		{ID: "doc-review", Label: "Code Review Guidelines", Type: TypeDocument, DocumentCount: 1,
			Topics: []string{"process"}},
		{ID: "topic-reliability", Label: "Reliability", Type: TypeTopic, DocumentCount: 4},
		{ID: "topic-search", Label: "Search", Type: TypeTopic, DocumentCount: 3},
		{ID: "topic-process", Label: "Engineering Process", Type: TypeTopic, DocumentCount: 5},
		{ID: "person-ana", Label: "Ana Ruiz", Type: TypePerson, DocumentCount: 6},
		{ID: "person-kenji", Label: "Kenji Mori", Type: TypePerson, DocumentCount: 2},
		{ID: "tech-postgres", Label: "PostgreSQL", Type: TypeTechnology, DocumentCount: 3},
		{ID: "tech-kafka", Label: "Kafka", Type: TypeTechnology, DocumentCount: 2},
		{ID: "tech-go", Label: "Go", Type: TypeTechnology, DocumentCount: 4},
		{ID: "insight-oncall", Label: "On-call load doubled after the Kafka migration", Type: TypeInsight, DocumentCount: 2},
		{ID: "insight-review", Label: "Smaller reviews merge faster", Type: TypeInsight, DocumentCount: 1},
	}

	links := []struct {
		source, target string
		weight         float64
	}{
		{"doc-onboarding", "topic-process", 0.82},
		{"doc-onboarding", "tech-go", 0.64},
		{"doc-onboarding", "person-ana", 0.71},
		{"doc-incident", "topic-reliability", 0.93},
		{"doc-incident", "tech-kafka", 0.58},
		{"doc-incident", "person-kenji", 0.66},
		{"doc-arch", "topic-search", 0.91},
		{"doc-arch", "tech-postgres", 0.77},
		{"doc-arch", "tech-kafka", 0.69},
		{"doc-arch", "tech-go", 0.61},
		{"doc-review", "topic-process", 0.88},
		{"doc-review", "insight-review", 0.74},
		{"topic-reliability", "insight-oncall", 0.81},
		{"tech-kafka", "insight-oncall", 0.72},
		{"person-ana", "topic-search", 0.55},
		{"person-ana", "doc-arch", 0.63},
		{"person-kenji", "topic-reliability", 0.68},
		{"topic-process", "insight-review", 0.59},
	}

	edges := make([]Edge, len(links))
	for i, l := range links {
		edges[i] = Edge{
			ID:     fmt.Sprintf("e%d", i+1),
			Source: l.source,
			Target: l.target,
			Weight: l.weight,
			Label:  fmt.Sprintf("%.0f%%", l.weight*100),
		}
	}

	return Graph{Nodes: nodes, Edges: edges}
}
