package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josinaldojr/providers-rag/internal/rag"
)

type stubRepo struct {
	providers []rag.Provider
	err       error
}

func (s *stubRepo) ListProviders(_ context.Context, drg *int) ([]rag.Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	if drg == nil {
		return s.providers, nil
	}
	var out []rag.Provider
	for _, p := range s.providers {
		if p.MSDRGDefinition == *drg {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertProvider(_ context.Context, _ *rag.Provider) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *stubRepo) DeleteAllProviders(_ context.Context) (int64, error) { return 0, nil }

func (s *stubRepo) CountProviders(_ context.Context) (int64, error) {
	return int64(len(s.providers)), nil
}

func newTestRouter(repo rag.Repository) http.Handler {
	svc := rag.NewService(repo, nil, nil, nil, rag.DefaultOptions())
	return NewRouter(NewHandler(svc))
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestAskEndpoint(t *testing.T) {
	repo := &stubRepo{providers: []rag.Provider{{
		ProviderName:         "GENERAL HOSPITAL",
		ProviderCity:         "SPRINGFIELD",
		ProviderState:        "IL",
		ProviderZipCode:      "62701",
		MSDRGDefinition:      470,
		StarRating:           7,
		AverageTotalPayments: 9000,
	}}}
	router := newTestRouter(repo)

	t.Run("off-topic question returns the refusal as a 200", func(t *testing.T) {
		body := strings.NewReader(`{"question":"How is the weather today?"}`)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ask", body))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp rag.AskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, rag.Refusal, resp.Answer)
	})

	t.Run("relevant question returns an answer", func(t *testing.T) {
		body := strings.NewReader(`{"question":"how much does general hospital cost?"}`)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ask", body))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp rag.AskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.Answer, "GENERAL HOSPITAL")
	})

	t.Run("invalid json is a 400", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("corpus outage is a 503", func(t *testing.T) {
		broken := newTestRouter(&stubRepo{err: errors.New("connection refused")})
		body := strings.NewReader(`{"question":"hospital ratings"}`)
		rr := httptest.NewRecorder()
		broken.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ask", body))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("GET is not routed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ask", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestProvidersEndpoint(t *testing.T) {
	repo := &stubRepo{providers: []rag.Provider{
		{ProviderName: "A", MSDRGDefinition: 470},
		{ProviderName: "B", MSDRGDefinition: 291},
	}}
	router := newTestRouter(repo)

	t.Run("lists all providers", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/providers", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var out []rag.Provider
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Len(t, out, 2)
	})

	t.Run("drg filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/providers?drg=470", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var out []rag.Provider
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		require.Len(t, out, 1)
		assert.Equal(t, "A", out[0].ProviderName)
	})

	t.Run("bad drg is a 400", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/providers?drg=knee", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad radius is a 400", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/providers?radius_km=-3", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
