package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, ValidateCatalog(DefaultCatalog()))
}

func TestValidateCatalog(t *testing.T) {
	tests := []struct {
		name string
		cfg  Catalog
	}{
		{"empty species", Catalog{Categories: []Category{{Name: "Small"}}}},
		{"no categories", Catalog{Fish: []Species{{Name: "Rui"}}}},
		{"blank name", Catalog{Fish: []Species{{Name: "  "}}, Categories: []Category{{Name: "Small"}}}},
		{"duplicate across lists", Catalog{
			Fish:       []Species{{Name: "Golda"}},
			Shrimp:     []Species{{Name: "Golda"}},
			Categories: []Category{{Name: "Small"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateCatalog(tt.cfg))
		})
	}
}

func TestStaticCatalogHolder(t *testing.T) {
	cat := Catalog{Fish: []Species{{Name: "Rui", Bangla: "রুই"}}, Categories: []Category{{Name: "Small"}}}
	h := NewStaticCatalogHolder(cat)
	assert.Equal(t, cat, h.Get())
}
