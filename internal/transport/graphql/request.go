package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/graphql-go/graphql"
)

// maxBodyBytes caps the size of a POST body.
const maxBodyBytes = 1 << 20

// ErrMissingQuery is returned when a request carries no query document.
var ErrMissingQuery = errors.New("query is required")

// Request is a GraphQL-over-HTTP request.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// ParseRequest reads a request from a JSON POST body or from GET query parameters.
func ParseRequest(r *http.Request) (Request, error) {
	var req Request

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				return Request{}, fmt.Errorf("invalid variables: %w", err)
			}
		}
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return Request{}, fmt.Errorf("read body: %w", err)
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return Request{}, fmt.Errorf("invalid request body: %w", err)
		}
	default:
		return Request{}, fmt.Errorf("method %s not allowed", r.Method)
	}

	if req.Query == "" {
		return Request{}, ErrMissingQuery
	}
	return req, nil
}

// Executor runs requests against a schema.
type Executor struct {
	schema graphql.Schema
}

// NewExecutor creates an Executor for the schema.
func NewExecutor(schema graphql.Schema) *Executor {
	return &Executor{schema: schema}
}

// Execute runs req. Validation and resolver errors are reported in the result,
// never returned.
func (e *Executor) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}
