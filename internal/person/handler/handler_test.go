package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifepath/internal/person/service"
	"lifepath/internal/person/store"
)

func newPersonRouter(t *testing.T) (chi.Router, *store.InMemory) {
	t.Helper()
	st := store.NewInMemory()
	st.SeedCategory(1, "Artists")
	st.SeedCategory(2, "Scientists")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(st, logger)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r, st
}

func createPerson(t *testing.T, router chi.Router, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/persons", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndSearchViaHandlers(t *testing.T) {
	router, _ := newPersonRouter(t)

	rec := createPerson(t, router, map[string]any{
		"first_name":          "Ada",
		"last_name":           "Lovelace",
		"birth_date":          "1990-03-07",
		"selected_categories": []int64{2},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Success bool  `json:"success"`
		ID      int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.True(t, created.Success)
	assert.NotZero(t, created.ID)

	req := httptest.NewRequest(http.MethodGet, "/persons?numbers=11&categories=2", nil)
	searchRec := httptest.NewRecorder()
	router.ServeHTTP(searchRec, req)
	require.Equal(t, http.StatusOK, searchRec.Code)

	var searched struct {
		Success bool `json:"success"`
		Persons []struct {
			ID            int64    `json:"id"`
			Number        int      `json:"number"`
			CategoryNames []string `json:"category_names"`
		} `json:"persons"`
	}
	require.NoError(t, json.NewDecoder(searchRec.Body).Decode(&searched))
	require.Len(t, searched.Persons, 1)
	assert.Equal(t, created.ID, searched.Persons[0].ID)
	assert.Equal(t, 11, searched.Persons[0].Number)
	assert.Equal(t, []string{"Scientists"}, searched.Persons[0].CategoryNames)
}

func TestCreateDuplicateConflictViaHandlers(t *testing.T) {
	router, _ := newPersonRouter(t)

	rec := createPerson(t, router, map[string]any{
		"first_name": "Ada", "birth_date": "1990-03-07",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same birth date, no confirm: 409 with the existing person listed.
	rec = createPerson(t, router, map[string]any{
		"first_name": "Augusta", "birth_date": "1990-03-07",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	var conflict struct {
		Exists  bool `json:"exists"`
		Matches []struct {
			FirstName string `json:"first_name"`
		} `json:"matches"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&conflict))
	assert.True(t, conflict.Exists)
	require.Len(t, conflict.Matches, 1)
	assert.Equal(t, "Ada", conflict.Matches[0].FirstName)

	// Save anyway.
	rec = createPerson(t, router, map[string]any{
		"first_name": "Augusta", "birth_date": "1990-03-07", "confirm": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateValidationErrorsViaHandlers(t *testing.T) {
	router, _ := newPersonRouter(t)

	rec := createPerson(t, router, map[string]any{
		"birth_date": "1990-03-07",
		"death_date": "1980-01-01",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Error  string   `json:"error"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation_failed", body.Error)
	assert.GreaterOrEqual(t, len(body.Errors), 2)
}

func TestCreateInvalidDateViaHandlers(t *testing.T) {
	router, _ := newPersonRouter(t)

	rec := createPerson(t, router, map[string]any{
		"first_name": "Ada", "birth_date": "07/03/1990",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEmptyRegistryViaHandlers(t *testing.T) {
	router, _ := newPersonRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Persons []json.RawMessage `json:"persons"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Persons, "empty result is success-shaped, not null")
	assert.Empty(t, body.Persons)
}

func TestRecomputeViaHandlers(t *testing.T) {
	router, _ := newPersonRouter(t)

	rec := createPerson(t, router, map[string]any{
		"first_name": "Ada", "birth_date": "1990-03-07",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/persons/recalculate-all", nil)
	recompRec := httptest.NewRecorder()
	router.ServeHTTP(recompRec, req)
	require.Equal(t, http.StatusOK, recompRec.Code)

	var body struct {
		Success      bool `json:"success"`
		UpdatedCount int  `json:"updated_count"`
	}
	require.NoError(t, json.NewDecoder(recompRec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.UpdatedCount)

	// Nothing is missing, so the missing-only variant reports zero rows.
	req = httptest.NewRequest(http.MethodPost, "/persons/recalculate-missing", nil)
	recompRec = httptest.NewRecorder()
	router.ServeHTTP(recompRec, req)
	require.Equal(t, http.StatusOK, recompRec.Code)
	require.NoError(t, json.NewDecoder(recompRec.Body).Decode(&body))
	assert.Equal(t, 0, body.UpdatedCount)
}
