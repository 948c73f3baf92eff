package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jRepo is the follow-graph projection: (:User)-[:FOLLOWS]->(:User).
// The entity store stays the source of truth; this side only serves
// traversal queries.
type Neo4jRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jRepo(driver neo4j.DriverWithContext) *Neo4jRepo {
	return &Neo4jRepo{driver: driver}
}

// EnsureSchema crée la contrainte d'unicité sur User.id (et donc l'index).
func (r *Neo4jRepo) EnsureSchema(ctx context.Context) error {
	return r.write(ctx,
		`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
		nil)
}

// CreateRelation is idempotent: replaying a followed event is harmless.
func (r *Neo4jRepo) CreateRelation(ctx context.Context, actorID, targetID string) error {
	return r.write(ctx, `
		MERGE (a:User {id: $actorId})
		MERGE (b:User {id: $targetId})
		MERGE (a)-[f:FOLLOWS]->(b)
		ON CREATE SET f.created_at = datetime()
	`, map[string]any{"actorId": actorID, "targetId": targetID})
}

func (r *Neo4jRepo) DeleteRelation(ctx context.Context, actorID, targetID string) error {
	return r.write(ctx, `
		MATCH (:User {id: $actorId})-[f:FOLLOWS]->(:User {id: $targetId})
		DELETE f
	`, map[string]any{"actorId": actorID, "targetId": targetID})
}

// SuggestUserIDs ranks friends of friends by the number of paths leading to
// them, skipping the user and the accounts already followed.
func (r *Neo4jRepo) SuggestUserIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (me:User {id: $userId})-[:FOLLOWS]->(:User)-[:FOLLOWS]->(s:User)
			WHERE s.id <> $userId AND NOT (me)-[:FOLLOWS]->(s)
			RETURN s.id AS id, count(*) AS score
			ORDER BY score DESC
			LIMIT $limit
		`
		res, err := tx.Run(ctx, query, map[string]any{"userId": userID, "limit": limit})
		if err != nil {
			return nil, err
		}

		ids := make([]string, 0, limit)
		for res.Next(ctx) {
			id, _, err := neo4j.GetRecordValue[string](res.Record(), "id")
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j suggestions: %w", err)
	}
	return result.([]string), nil
}

func (r *Neo4jRepo) write(ctx context.Context, query string, params map[string]any) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j write: %w", err)
	}
	return nil
}
