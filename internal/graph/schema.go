// Package graph exposes the shop over GraphQL.
package graph

import (
	_ "embed"

	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// SchemaSDL returns the GraphQL schema definition served by the API.
func SchemaSDL() string { return schemaSDL }

// Options bounds query execution. Zero values keep graphql-go defaults.
type Options struct {
	MaxDepth       int
	MaxParallelism int
}

// NewSchema parses the schema and binds it to r.
func NewSchema(r *Resolver, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{log: r.log}),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}
	return graphql.ParseSchema(schemaSDL, r, schemaOpts...)
}
