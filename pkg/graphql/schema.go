// Package graphql builds the read-only GraphQL schema from a root query
// object assembled in app/graphql.
package graphql

import "github.com/graphql-go/graphql"

// NewSchema creates a query-only GraphQL schema.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}
