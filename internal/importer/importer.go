package importer

import (
	"io"
	"strings"

	"github.com/umsatz-dev/umsatz/internal/banking"
	"github.com/umsatz-dev/umsatz/internal/model"
	"github.com/umsatz-dev/umsatz/internal/sparda"
)

// Parser converts a bank CSV export into a Statement.
type Parser interface {
	Parse(r io.Reader) (*model.Statement, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers, configured
// for the bank identified by bic.
func DefaultRegistry(bic banking.BIC) *Registry {
	r := NewRegistry()
	r.Register(sparda.NewParser(bic))
	return r
}
