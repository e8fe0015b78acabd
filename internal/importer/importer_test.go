package importer

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umsatz-dev/umsatz/internal/model"
)

type fakeParser struct{ format string }

func (p *fakeParser) Parse(io.Reader) (*model.Statement, error) { return &model.Statement{}, nil }
func (p *fakeParser) Format() string                            { return p.format }

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeParser{format: "sparda"})
	p := r.Get("sparda")
	require.NotNil(t, p)
	assert.Equal(t, "sparda", p.Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeParser{format: "sparda"})
	assert.NotNil(t, r.Get("Sparda"))
	assert.NotNil(t, r.Get("SPARDA"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeParser{format: "sparda"})
	assert.Panics(t, func() {
		r.Register(&fakeParser{format: "Sparda"})
	})
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry("GENODED1SPE")
	assert.NotNil(t, r.Get("sparda"))
}
