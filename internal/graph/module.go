package graph

import (
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// DefaultPath is where the endpoint is mounted when no path is configured.
const DefaultPath = "/graphql"

// GraphModule serves the schema over HTTP.
type GraphModule struct {
	schema *graphql.Schema
	path   string
}

// NewModule creates a GraphModule serving schema at path.
// Panics if schema is nil.
func NewModule(schema *graphql.Schema, path string) *GraphModule {
	if schema == nil {
		panic("graph.NewModule: schema must not be nil")
	}
	if path == "" {
		path = DefaultPath
	}
	return &GraphModule{schema: schema, path: path}
}

// RegisterRoutes mounts the GraphQL endpoint on r.
func (m *GraphModule) RegisterRoutes(r *gin.RouterGroup) {
	r.POST(m.path, gin.WrapH(&relay.Handler{Schema: m.schema}))
}
