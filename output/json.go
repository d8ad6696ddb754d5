package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/tpgainz/recherche-entreprises/entreprise"
)

type jsonLine struct {
	Seed     string          `json:"seed"`
	Status   int             `json:"status"`
	Response json.RawMessage `json:"response"`
}

// JSONWriter writes one JSON object per response: the seed id, the HTTP
// status and the body as returned by the API.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

func (j *JSONWriter) Write(_ context.Context, seedID string, resp *entreprise.Response) error {
	body := resp.Raw
	if len(body) == 0 {
		var err error

		body, err = json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.enc.Encode(jsonLine{Seed: seedID, Status: resp.StatusCode, Response: body})
}
