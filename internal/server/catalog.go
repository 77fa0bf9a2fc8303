package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/arot/internal/calculation"
	"github.com/smallbiznis/arot/internal/config"
)

type catalogSpecies struct {
	Name     string           `json:"name"`
	Bangla   string           `json:"bangla"`
	Unit     calculation.Unit `json:"unit"`
	IsShrimp bool             `json:"is_shrimp"`
}

type catalogResponse struct {
	Fish       []catalogSpecies  `json:"fish"`
	Shrimp     []catalogSpecies  `json:"shrimp"`
	Categories []config.Category `json:"categories"`
	PonaUnit   calculation.Unit  `json:"pona_unit"`
}

func (s *Server) GetCatalog(c *gin.Context) {
	cat := config.DefaultCatalog()
	if s.catalog != nil {
		cat = s.catalog.Get()
	}

	c.JSON(http.StatusOK, gin.H{"data": catalogResponse{
		Fish:       catalogEntries(cat.Fish),
		Shrimp:     catalogEntries(cat.Shrimp),
		Categories: cat.Categories,
		PonaUnit:   calculation.UnitHazar,
	}})
}

// catalogEntries derives the pricing unit from the engine, not from the list
// a species was configured under.
func catalogEntries(species []config.Species) []catalogSpecies {
	out := make([]catalogSpecies, 0, len(species))
	for _, sp := range species {
		out = append(out, catalogSpecies{
			Name:     sp.Name,
			Bangla:   sp.Bangla,
			Unit:     calculation.UnitFor(calculation.TransactionTypeFish, sp.Name),
			IsShrimp: calculation.IsShrimp(sp.Name),
		})
	}
	return out
}
