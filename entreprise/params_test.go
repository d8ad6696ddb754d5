package entreprise

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsEncodeKeepsInsertionOrder(t *testing.T) {
	var p Params

	p.SetString("q", "Carrefour")
	p.SetInt("page", 2)
	p.SetBool("minimal", true)

	assert.Equal(t, "q=Carrefour&page=2&minimal=true", p.Encode())
	assert.Equal(t, []string{"q", "page", "minimal"}, p.Keys())
}

func TestParamsEncodeKeepsFalseAndZero(t *testing.T) {
	var p Params

	p.SetBool("minimal", false)
	p.SetInt("page", 0)
	p.SetFloat("ca_min", 0)

	assert.Equal(t, "minimal=false&page=0&ca_min=0", p.Encode())
}

func TestParamsEncodeValues(t *testing.T) {
	tests := []struct {
		name     string
		set      func(p *Params)
		expected string
	}{
		{"integer float", func(p *Params) { p.SetFloat("radius", 10) }, "radius=10"},
		{"decimal float", func(p *Params) { p.SetFloat("lat", 48.86) }, "lat=48.86"},
		{"negative float", func(p *Params) { p.SetFloat("lon", -1.5) }, "lon=-1.5"},
		{"large float", func(p *Params) { p.SetFloat("ca_min", 100000) }, "ca_min=100000"},
		{"date", func(p *Params) {
			p.SetDate("date_naissance_personne_min", time.Date(1960, time.January, 1, 15, 4, 5, 0, time.UTC))
		}, "date_naissance_personne_min=1960-01-01"},
		{"spaces", func(p *Params) { p.SetString("q", "la poste") }, "q=la+poste"},
		{"reserved characters", func(p *Params) { p.SetString("q", "a&b=c") }, "q=a%26b%3Dc"},
		{"comma list", func(p *Params) { p.SetString("code_postal", "38540,38189") }, "code_postal=38540%2C38189"},
		{"accents", func(p *Params) { p.SetString("q", "société") }, "q=soci%C3%A9t%C3%A9"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var p Params
			test.set(&p)
			assert.Equal(t, test.expected, p.Encode())
		})
	}
}

func TestParamsSetReplacesInPlace(t *testing.T) {
	var p Params

	p.SetString("q", "first")
	p.SetInt("page", 1)
	p.SetString("q", "second")

	require.Equal(t, 2, p.Len())
	assert.Equal(t, "q=second&page=1", p.Encode())

	v, ok := p.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestParamsEncodePairCount(t *testing.T) {
	var p Params

	for i := 0; i < 7; i++ {
		p.SetInt(string(rune('a'+i)), i)
	}

	assert.Len(t, strings.Split(p.Encode(), "&"), 7)
	assert.Equal(t, "", (&Params{}).Encode())
}

func TestSearchQueryParams(t *testing.T) {
	q := SearchQuery{
		Q:                        Ptr("Carrefour"),
		CategorieEntreprise:      Ptr(CategorieGE),
		EstBio:                   Ptr(false),
		EtatAdministratif:        Ptr(EtatActif),
		DateNaissancePersonneMin: Ptr(NewDate(1960, time.January, 1)),
		TypePersonne:             Ptr(TypeDirigeant),
		CaMin:                    Ptr(100000.0),
		Minimal:                  Ptr(true),
		Include:                  Ptr("siege,complements"),
		Page:                     Ptr(2),
		PerPage:                  Ptr(0),
	}

	p := q.Params()

	assert.Equal(t,
		"q=Carrefour&categorie_entreprise=GE&est_bio=false&etat_administratif=A"+
			"&date_naissance_personne_min=1960-01-01&type_personne=dirigeant&ca_min=100000"+
			"&minimal=true&include=siege%2Ccomplements&page=2&per_page=0",
		p.Encode())
	assert.Equal(t, 11, p.Len())
}

func TestSearchQueryParamsEmpty(t *testing.T) {
	p := SearchQuery{}.Params()

	assert.Equal(t, 0, p.Len())
	assert.Equal(t, "", p.Encode())
}

func TestGeoQueryParams(t *testing.T) {
	q := GeoQuery{Lat: 48.86, Lon: 2.35, Radius: Ptr(10.0)}

	assert.Equal(t, "lat=48.86&lon=2.35&radius=10", q.Params().Encode())
}

func TestGeoQueryParamsAlwaysCarriesCoordinates(t *testing.T) {
	q := GeoQuery{Minimal: Ptr(false)}

	assert.Equal(t, "lat=0&lon=0&minimal=false", q.Params().Encode())
}

func TestParamsCopiesAreIndependent(t *testing.T) {
	var base Params
	base.SetString("q", "Carrefour")

	derived := base
	derived.SetInt("page", 2)
	base.SetInt("page", 3)

	assert.Equal(t, "q=Carrefour&page=3", base.Encode())
	assert.Equal(t, 2, base.Len())
	assert.Equal(t, "q=Carrefour&page=2", derived.Encode())

	replaced := base
	replaced.SetString("q", "Auchan")

	assert.Equal(t, "q=Carrefour&page=3", base.Encode())
	assert.Equal(t, "q=Auchan&page=3", replaced.Encode())
}

func TestParamsReadOnReturnedValue(t *testing.T) {
	q := SearchQuery{Q: Ptr("Carrefour"), Page: Ptr(2)}

	assert.Equal(t, 2, q.Params().Len())
	assert.Equal(t, []string{"q", "page"}, q.Params().Keys())

	v, ok := q.Params().Get("page")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}
