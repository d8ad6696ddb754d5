package entreprise

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return data
}

type capturedRequest struct {
	mu    sync.Mutex
	paths []string
	raws  []string
	heads []http.Header
}

func (c *capturedRequest) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paths = append(c.paths, r.URL.Path)
	c.raws = append(c.raws, r.URL.RawQuery)
	c.heads = append(c.heads, r.Header.Clone())
}

func newTestServer(t *testing.T, status int, body []byte) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func TestClientSearch(t *testing.T) {
	body := loadFixture(t, "search_carrefour.json")
	srv, captured := newTestServer(t, http.StatusOK, body)

	client := NewClient(WithBaseURL(srv.URL+"/"), WithUserAgent("recherche-test/1.0"))

	resp, err := client.Search(context.Background(), SearchQuery{
		Q:       Ptr("Carrefour"),
		Minimal: Ptr(true),
		Page:    Ptr(2),
	})
	require.NoError(t, err)

	require.Len(t, captured.paths, 1)
	assert.Equal(t, SearchEndpoint, captured.paths[0])
	assert.Equal(t, "q=Carrefour&minimal=true&page=2", captured.raws[0])
	assert.Equal(t, "application/json", captured.heads[0].Get("Accept"))
	assert.Equal(t, "recherche-test/1.0", captured.heads[0].Get("User-Agent"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, resp.Failed())
	assert.Equal(t, 2, resp.TotalResults)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.PerPage)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "652014051", first.Siren)
	assert.Equal(t, "CARREFOUR", first.NomComplet)
	assert.Equal(t, "GE", first.CategorieEntreprise)
	assert.True(t, first.Diffusible())
	assert.Equal(t, NewDate(1959, time.July, 11), first.DateCreation)
	assert.True(t, first.DateFermeture.IsZero())
	assert.Equal(t, 2022, first.AnneeTrancheEffectifSalarie.Int())

	require.NotNil(t, first.Siege)
	assert.Equal(t, "65201405100033", first.Siege.Siret)
	assert.Equal(t, "91300", first.Siege.CodePostal)
	assert.InDelta(t, 48.7224, first.Siege.Latitude.Float64(), 1e-9)
	assert.InDelta(t, 2.2915, first.Siege.Longitude.Float64(), 1e-9)
	assert.True(t, first.Siege.EstSiege)
	assert.True(t, first.Siege.Active())
	assert.Equal(t, []string{"CARREFOUR"}, first.Siege.ListeEnseignes)

	require.Len(t, first.Dirigeants, 2)
	assert.Equal(t, "Alexandre Bompard", first.Dirigeants[0].FullName())
	assert.Equal(t, "KPMG SA", first.Dirigeants[1].FullName())

	require.Contains(t, first.Finances, "2022")
	require.NotNil(t, first.Finances["2022"].CA)
	assert.InDelta(t, 1.0e9, *first.Finances["2022"].CA, 1)
	assert.Nil(t, first.Finances["2022"].ResultatNet)

	require.NotNil(t, first.Complements)
	assert.True(t, first.Complements.EgaproRenseignee)
	assert.Nil(t, first.Complements.CollectiviteTerritoriale)

	second := resp.Results[1]
	assert.Equal(t, "P", second.StatutDiffusion)
	assert.Nil(t, second.Siege)
	require.Len(t, second.MatchingEtablissements, 1)
	assert.Equal(t, "F", second.MatchingEtablissements[0].EtatAdministratif)
	require.NotNil(t, second.Complements.CollectiviteTerritoriale)
	require.Len(t, second.Complements.CollectiviteTerritoriale.Elus, 1)
	assert.Equal(t, "Maire", second.Complements.CollectiviteTerritoriale.Elus[0].Fonction)
}

func TestClientSearchReturnsBodyUnmodified(t *testing.T) {
	body := loadFixture(t, "search_carrefour.json")
	srv, _ := newTestServer(t, http.StatusOK, body)

	resp, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchQuery{Q: Ptr("Carrefour")})
	require.NoError(t, err)

	assert.JSONEq(t, string(body), string(resp.Raw))

	var expected, actual map[string]any
	require.NoError(t, json.Unmarshal(body, &expected))
	require.NoError(t, json.Unmarshal(resp.Raw, &actual))
	assert.Equal(t, expected, actual)
}

func TestClientSearchNearPoint(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, []byte(`{"results":[],"total_results":0,"page":1,"per_page":10,"total_pages":0}`))

	resp, err := NewClient(WithBaseURL(srv.URL)).SearchNearPoint(context.Background(), GeoQuery{
		Lat:    48.86,
		Lon:    2.35,
		Radius: Ptr(10.0),
	})
	require.NoError(t, err)

	assert.Equal(t, NearPointEndpoint, captured.paths[0])
	assert.Equal(t, "lat=48.86&lon=2.35&radius=10", captured.raws[0])
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestClientErrorStatusReturnsBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"bad request", http.StatusBadRequest},
		{"not found", http.StatusNotFound},
		{"too many requests", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}

	body := loadFixture(t, "error.json")

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv, _ := newTestServer(t, test.status, body)

			resp, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchQuery{Include: Ptr("siege")})
			require.NoError(t, err)

			assert.Equal(t, test.status, resp.StatusCode)
			assert.True(t, resp.Failed())
			assert.Equal(t, "Veuillez indiquer la variable minimal à True pour utiliser include.", resp.Erreur)
			assert.Nil(t, resp.Results)
		})
	}
}

func TestClientMalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, []byte(`{"results": [`))

	resp, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchQuery{})
	require.Error(t, err)

	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.False(t, errors.Is(err, ErrTransport))

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestClientNonJSONBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadGateway, []byte("<html>Bad gateway</html>"))

	_, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestClientWrongTypes(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, []byte(`{"results": {"siren": "652014051"}}`))

	_, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedShape))
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := NewClient(WithBaseURL(baseURL)).Search(context.Background(), SearchQuery{Q: Ptr("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestClientContextCancel(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(WithBaseURL(srv.URL)).Search(ctx, SearchQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid results", `{"results":[{"siren":"652014051","siege":{"siret":"65201405100033"}}],"total_results":1}`, false},
		{"error body", `{"erreur":"Paramètre inconnu"}`, false},
		{"empty results", `{"results":[],"total_results":0}`, false},
		{"missing results and erreur", `{"total_results":0,"page":1}`, true},
		{"short siren", `{"results":[{"siren":"1234"}]}`, true},
		{"non numeric siret", `{"results":[{"siren":"652014051","siege":{"siret":"6520140510003X"}}]}`, true},
		{"negative total", `{"results":[],"total_results":-1}`, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, []byte(test.body))

			_, err := NewClient(WithBaseURL(srv.URL), WithValidation()).Search(context.Background(), SearchQuery{})
			if test.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnexpectedShape))
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestClientWithoutValidationAcceptsLooseBodies(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, []byte(`{"total_results":0,"page":1}`))

	resp, err := NewClient(WithBaseURL(srv.URL)).Search(context.Background(), SearchQuery{})
	require.NoError(t, err)
	assert.Nil(t, resp.Results)
	assert.False(t, resp.Failed())
}

func TestClientConcurrentCalls(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, []byte(`{"results":[],"total_results":0}`))
	client := NewClient(WithBaseURL(srv.URL))

	var wg sync.WaitGroup

	for i := 1; i <= 8; i++ {
		wg.Add(1)

		go func(page int) {
			defer wg.Done()

			_, err := client.Search(context.Background(), SearchQuery{Page: Ptr(page)})
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	assert.Len(t, captured.raws, 8)
	assert.ElementsMatch(t,
		[]string{"page=1", "page=2", "page=3", "page=4", "page=5", "page=6", "page=7", "page=8"},
		captured.raws)
}

func TestClientURL(t *testing.T) {
	client := NewClient()

	var p Params
	p.SetString("q", "Carrefour")
	p.SetInt("page", 2)
	p.SetBool("minimal", true)

	assert.Equal(t,
		"https://recherche-entreprises.api.gouv.fr/search?q=Carrefour&page=2&minimal=true",
		client.URL(SearchEndpoint, p))
	assert.Equal(t, "https://recherche-entreprises.api.gouv.fr/search", client.URL(SearchEndpoint, Params{}))
}

func TestClientDoKeepsCallerOrder(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, []byte(`{"results":[],"total_results":0}`))

	var p Params
	p.SetString("q", "Carrefour")
	p.SetInt("page", 2)
	p.SetBool("minimal", true)

	_, err := NewClient(WithBaseURL(srv.URL)).Do(context.Background(), SearchEndpoint, p)
	require.NoError(t, err)

	assert.Equal(t, "q=Carrefour&page=2&minimal=true", captured.raws[0])
}
