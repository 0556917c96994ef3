package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA = "0b3c6a8e-7a0e-4d1f-9a55-2b6f7f5f1a01"
	idB = "0b3c6a8e-7a0e-4d1f-9a55-2b6f7f5f1a02"
)

type stubCompleter struct {
	out    string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ map[string]any) ([]byte, error) {
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.out), nil
}

func strPtr(s string) *string { return &s }

func records() []ProductRecord {
	return []ProductRecord{
		{ID: idA, Name: strPtr(""), Category: strPtr(" shoes ")},
		{ID: idB, Name: strPtr("Cap"), Image: strPtr("https://x.test/c.png"), Category: strPtr("HATS"), CreatedAt: strPtr("2024-01-01T00:00:00Z")},
	}
}

func TestBuildPromptListsEveryProduct(t *testing.T) {
	p, err := BuildPrompt(records())
	require.NoError(t, err)
	assert.Contains(t, p, "Product ID: "+idA)
	assert.Contains(t, p, "Product ID: "+idB)
	assert.Contains(t, p, "Image: null")
	assert.Contains(t, p, "Created At (ISO 8601 Timestamp): 2024-01-01T00:00:00Z")
	assert.Contains(t, p, DefaultCategory)
}

func TestCorrectAcceptsConformingOutput(t *testing.T) {
	stub := &stubCompleter{out: `{
		"correctedProductData": [
			{"id":"` + idA + `","name":"Unknown Product","description":null,"image":"https://placehold.co/300x300.png","category":"SHOES","is_active":true,"created_at":null},
			{"id":"` + idB + `","name":"Cap","description":null,"image":"https://x.test/c.png","category":"HATS","is_active":false,"created_at":"2024-01-01T00:00:00Z"}
		],
		"correctionsSummary":"filled name and image"
	}`}

	res, err := NewCorrector(stub).Correct(context.Background(), records())
	require.NoError(t, err)
	require.Len(t, res.CorrectedProductData, 2)
	assert.Equal(t, "SHOES", res.CorrectedProductData[0].Category)
	assert.False(t, *res.CorrectedProductData[1].IsActive)
	assert.Equal(t, "filled name and image", res.CorrectionsSummary)
	assert.Contains(t, stub.prompt, idA)
}

func TestCorrectRejectsNonConformingOutput(t *testing.T) {
	cases := map[string]string{
		"not json":         `nope`,
		"unknown id":       `{"correctedProductData":[{"id":"0b3c6a8e-7a0e-4d1f-9a55-2b6f7f5f1aff","name":"A","image":"https://x.test/a.png","category":"A","is_active":true,"created_at":null}],"correctionsSummary":""}`,
		"blank name":       `{"correctedProductData":[{"id":"` + idA + `","name":" ","image":"https://x.test/a.png","category":"A","is_active":true,"created_at":null}],"correctionsSummary":""}`,
		"lowercase cat":    `{"correctedProductData":[{"id":"` + idA + `","name":"A","image":"https://x.test/a.png","category":"shoes","is_active":true,"created_at":null}],"correctionsSummary":""}`,
		"bad image":        `{"correctedProductData":[{"id":"` + idA + `","name":"A","image":"placeholder","category":"A","is_active":true,"created_at":null}],"correctionsSummary":""}`,
		"missing active":   `{"correctedProductData":[{"id":"` + idA + `","name":"A","image":"https://x.test/a.png","category":"A","created_at":null}],"correctionsSummary":""}`,
		"empty timestamp":  `{"correctedProductData":[{"id":"` + idA + `","name":"A","image":"https://x.test/a.png","category":"A","is_active":true,"created_at":""}],"correctionsSummary":""}`,
		"bad timestamp":    `{"correctedProductData":[{"id":"` + idA + `","name":"A","image":"https://x.test/a.png","category":"A","is_active":true,"created_at":"yesterday"}],"correctionsSummary":""}`,
		"duplicated id":    `{"correctedProductData":[{"id":"` + idA + `","name":"A","image":"https://x.test/a.png","category":"A","is_active":true},{"id":"` + idA + `","name":"A","image":"https://x.test/a.png","category":"A","is_active":true}],"correctionsSummary":""}`,
		"wrong type":       `{"correctedProductData":[{"id":"` + idA + `","name":"A","image":"https://x.test/a.png","category":"A","is_active":"yes"}],"correctionsSummary":""}`,
		"description long": `{"correctedProductData":[{"id":"` + idA + `","name":"A","description":"` + strings.Repeat("d", 501) + `","image":"https://x.test/a.png","category":"A","is_active":true}],"correctionsSummary":""}`,
	}
	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCorrector(&stubCompleter{out: out}).Correct(context.Background(), records())
			assert.ErrorIs(t, err, ErrNonConforming)
		})
	}
}

func TestCorrectUnavailable(t *testing.T) {
	_, err := NewCorrector(&stubCompleter{err: errors.New("timeout")}).Correct(context.Background(), records())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestValidateWithoutKnownSet(t *testing.T) {
	active := true
	rows := []CorrectedProduct{{ID: idA, Name: "A", Image: "https://x.test/a.png", Category: "A", IsActive: &active}}
	assert.NoError(t, Validate(rows, nil), "nil created_at means absent")

	rows[0].CreatedAt = strPtr("")
	assert.ErrorIs(t, Validate(rows, nil), ErrNonConforming)
	rows[0].CreatedAt = strPtr("2024-01-01T00:00:00Z")
	assert.NoError(t, Validate(rows, nil))
}

func TestGeminiClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))
		var body geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "application/json", body.GenerationConfig.ResponseMimeType)
		assert.NotEmpty(t, body.GenerationConfig.ResponseSchema)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"a\":"},{"text":"1}"}]}}]}`))
	}))
	defer srv.Close()

	out, err := NewGeminiClient("key", "gemini-test", srv.URL+"/").Complete(context.Background(), "p", OutputSchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))
}

func TestGeminiClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models/empty:generateContent" {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"bad key"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient("k", "m", srv.URL).Complete(context.Background(), "p", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")

	_, err = NewGeminiClient("k", "empty", srv.URL).Complete(context.Background(), "p", nil)
	assert.Error(t, err)
}
