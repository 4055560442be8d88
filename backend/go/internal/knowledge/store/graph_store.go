package store

import (
	neo4jdb "Saber/backend/go/internal/database/neo4j"
	"Saber/backend/go/internal/models"
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphMirror copies fact relationships into a graph database.
type GraphMirror interface {
	MirrorFact(ctx context.Context, fact models.Fact) error
}

// Edge is one relationship as it is written to the graph.
type Edge struct {
	Source      string
	Target      string
	Type        string
	Description string
	FactKind    string
}

// EdgesFor lists the graph edges carried by fact.
func EdgesFor(fact models.Fact) []Edge {
	source := norm(fact.Entity)
	if fact.Concept != "" {
		source = norm(fact.Concept)
	}
	edges := make([]Edge, 0, len(fact.Relationships))
	for _, r := range fact.Relationships {
		target := norm(r.TargetEntity)
		if target == "" || target == source {
			continue
		}
		edges = append(edges, Edge{
			Source:      source,
			Target:      target,
			Type:        r.Type,
			Description: r.Description,
			FactKind:    fact.Kind,
		})
	}
	return edges
}

const mergeEdgeQuery = `
MERGE (source:Entity {name: $source})
MERGE (target:Entity {name: $target})
MERGE (source)-[r:RELATES {type: $type}]->(target)
SET r.description = $description, r.factKind = $factKind`

// Neo4jGraphStore is a GraphMirror that uses Neo4j as the backend.
type Neo4jGraphStore struct {
	client *neo4jdb.Neo4jClient
}

// NewNeo4jGraphStore creates a new Neo4jGraphStore.
func NewNeo4jGraphStore(client *neo4jdb.Neo4jClient) *Neo4jGraphStore {
	return &Neo4jGraphStore{client: client}
}

// MirrorFact merges every relationship of fact as an edge.
// The relationship type is a property so arbitrary predicates never reach the query text.
func (s *Neo4jGraphStore) MirrorFact(ctx context.Context, fact models.Fact) error {
	edges := EdgesFor(fact)
	if len(edges) == 0 {
		return nil
	}
	_, err := s.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		for _, e := range edges {
			result, err := tx.Run(ctx, mergeEdgeQuery, map[string]interface{}{
				"source":      e.Source,
				"target":      e.Target,
				"type":        e.Type,
				"description": e.Description,
				"factKind":    e.FactKind,
			})
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: mirror relationships to neo4j: %v", ErrStore, err)
	}
	return nil
}
