// Package gqldoc extracts what the patch engine needs from GraphQL documents:
// the response key of the first root field and the operation type.
//
// Parsed documents are kept in a bounded LRU keyed by document text.
package gqldoc

import (
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// DefaultCacheSize is the number of parsed documents a Parser keeps.
const DefaultCacheSize = 256

// Sentinel errors for document inspection.
var (
	ErrEmptyDocument = errors.New("gqldoc: document is empty")
	ErrNoOperation   = errors.New("gqldoc: document has no operation")
	ErrNoRootField   = errors.New("gqldoc: first selection is not a field")
)

// OperationType is the kind of GraphQL operation.
type OperationType string

const (
	Query        OperationType = "query"
	Mutation     OperationType = "mutation"
	Subscription OperationType = "subscription"
)

// Parser parses documents and remembers the result.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: returned documents are shared and must not be modified.
type Parser struct {
	docs *lru.Cache[string, *ast.QueryDocument]
}

// NewParser creates a parser keeping up to size parsed documents.
// A size <= 0 uses DefaultCacheSize.
func NewParser(size int) *Parser {
	if size <= 0 {
		size = DefaultCacheSize
	}
	docs, err := lru.New[string, *ast.QueryDocument](size)
	if err != nil {
		// Only returned for non-positive sizes.
		panic(err)
	}
	return &Parser{docs: docs}
}

// Parse parses document, serving repeats from the cache.
func (p *Parser) Parse(document string) (*ast.QueryDocument, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrEmptyDocument
	}
	if doc, ok := p.docs.Get(document); ok {
		return doc, nil
	}
	doc, err := parser.ParseQuery(&ast.Source{Input: document})
	if err != nil {
		return nil, fmt.Errorf("gqldoc: parse: %w", err)
	}
	p.docs.Add(document, doc)
	return doc, nil
}

// RootField returns the response key (alias, else name) of the first
// selection of the first operation in document.
func (p *Parser) RootField(document string) (string, error) {
	op, err := p.firstOperation(document)
	if err != nil {
		return "", err
	}
	if len(op.SelectionSet) == 0 {
		return "", ErrNoRootField
	}
	field, ok := op.SelectionSet[0].(*ast.Field)
	if !ok {
		return "", ErrNoRootField
	}
	return ResponseKey(field), nil
}

// Operation returns the type of the first operation in document.
func (p *Parser) Operation(document string) (OperationType, error) {
	op, err := p.firstOperation(document)
	if err != nil {
		return "", err
	}
	switch op.Operation {
	case ast.Mutation:
		return Mutation, nil
	case ast.Subscription:
		return Subscription, nil
	default:
		return Query, nil
	}
}

// Len returns the number of cached documents.
func (p *Parser) Len() int {
	return p.docs.Len()
}

func (p *Parser) firstOperation(document string) (*ast.OperationDefinition, error) {
	doc, err := p.Parse(document)
	if err != nil {
		return nil, err
	}
	if len(doc.Operations) == 0 {
		return nil, ErrNoOperation
	}
	return doc.Operations[0], nil
}

// ResponseKey returns the key a field's value appears under in a response.
func ResponseKey(field *ast.Field) string {
	if field.Alias != "" {
		return field.Alias
	}
	return field.Name
}
