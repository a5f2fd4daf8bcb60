// Package provider talks to the remote generation service that
// produces knowledge tree content. Failures surface as typed errors
// and are never retried here: the user retriggers, the UI reports.
package provider

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/knowtree/pkg/model"
)

// Provider is the tree content source. GenerateTree creates a full
// tree for a fresh topic; ExpandNode fetches the children of one node
// identified by its title and ancestry within the root topic.
//
// Implementations must not retry and must not enforce timeouts beyond
// what ctx carries — both are caller policy.
type Provider interface {
	GenerateTree(ctx context.Context, topic string) (*model.KnowledgeTree, error)
	ExpandNode(ctx context.Context, rootTopic, nodeTitle string, ancestry []string) ([]model.KnowledgeNode, error)
}

// ProviderError wraps network/service failures and missing response
// text. Distinct from ParseError so the UI can phrase the two failure
// families differently.
type ProviderError struct {
	Op  string // "generate" or "expand"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("content provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError means the service answered but the text did not contain
// the expected JSON value after fence stripping.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse provider response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
