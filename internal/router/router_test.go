package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtmst/dash-md/internal/config"
)

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("upstream unavailable")
}

type fixedGenerator struct{ text string }

func (g fixedGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return g.text, nil
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(opts))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func patientBody(first, last, email string) map[string]any {
	return map[string]any{
		"first_name":    first,
		"last_name":     last,
		"date_of_birth": "1990-01-15",
		"gender":        "Female",
		"email":         email,
		"phone":         "555-0100",
		"address":       "123 Test St",
	}
}

func createPatient(t *testing.T, base string, body map[string]any) string {
	t.Helper()
	resp, got := doJSON(t, http.MethodPost, base+"/api/patients", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := got["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", got["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestPatientCRUD(t *testing.T) {
	srv := newTestServer(t, Options{})

	body := patientBody("Alice", "Smith", "alice@example.com")
	body["blood_type"] = "O+"
	body["allergies"] = []string{"Penicillin"}
	id := createPatient(t, srv.URL, body)

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/patients/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", got["first_name"])
	assert.Equal(t, "1990-01-15", got["date_of_birth"])
	assert.Equal(t, "O+", got["blood_type"])
	assert.Equal(t, "active", got["status"], "status defaults to active")

	// update es reemplazo total
	upd := patientBody("Alicia", "Smith", "alicia@example.com")
	upd["status"] = "critical"
	resp, got = doJSON(t, http.MethodPut, srv.URL+"/api/patients/"+id, upd)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alicia", got["first_name"])
	assert.Equal(t, "critical", got["status"])
	assert.Nil(t, got["blood_type"], "blood type cleared by full replace")

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/patients/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/patients/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePatient_ValidationErrors(t *testing.T) {
	srv := newTestServer(t, Options{})

	body := patientBody("Alice", "Smith", "alice@example.com")
	body["date_of_birth"] = time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")

	resp, got := doJSON(t, http.MethodPost, srv.URL+"/api/patients", body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	details, _ := got["details"].([]any)
	require.NotEmpty(t, details)
	first, _ := details[0].(map[string]any)
	assert.Equal(t, "date_of_birth", first["field"])
}

func TestCreatePatient_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Post(srv.URL+"/api/patients", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListPatients_SearchAndPagination(t *testing.T) {
	srv := newTestServer(t, Options{})

	createPatient(t, srv.URL, patientBody("Alice", "Smith", "alice@example.com"))
	createPatient(t, srv.URL, patientBody("Bob", "Jones", "bob@example.com"))

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/patients?search=Alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, got["total"])

	items, _ := got["items"].([]any)
	require.Len(t, items, 1)
	item, _ := items[0].(map[string]any)
	assert.Equal(t, "Alice", item["first_name"])

	// página con limit corto: total sigue siendo el global
	resp, got = doJSON(t, http.MethodGet, srv.URL+"/api/patients?limit=1&offset=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, got["total"])
	items, _ = got["items"].([]any)
	assert.Len(t, items, 1)
	assert.EqualValues(t, 1, got["limit"])
	assert.EqualValues(t, 1, got["offset"])
}

func TestListPatients_BadQueryParams(t *testing.T) {
	srv := newTestServer(t, Options{})

	for _, q := range []string{
		"sort_by=email",
		"sort_by=password",
		"sort_order=sideways",
		"status=deceased",
		"limit=abc",
	} {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/patients?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", q)
	}
}

func TestNotesFlow(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createPatient(t, srv.URL, patientBody("Alice", "Smith", "alice@example.com"))

	for _, ts := range []string{"2025-01-10T09:00:00Z", "2025-01-15T09:00:00Z"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/patients/"+id+"/notes", map[string]any{
			"content":   "Visit on " + ts,
			"timestamp": ts,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	listResp, err := http.Get(srv.URL + "/api/patients/" + id + "/notes")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listed []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	require.Len(t, listed, 2)

	// más reciente primero
	assert.Contains(t, listed[0]["content"], "2025-01-15")
	assert.Contains(t, listed[1]["content"], "2025-01-10")
}

func TestNotes_UnknownPatient(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/patients/nope/notes", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/patients/nope/notes", map[string]any{
		"content":   "x",
		"timestamp": "2025-01-10T09:00:00Z",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeletePatient_CascadesNotes(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createPatient(t, srv.URL, patientBody("Alice", "Smith", "alice@example.com"))

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/patients/"+id+"/notes", map[string]any{
		"content":   "Stable vitals.",
		"timestamp": "2025-01-10T09:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/patients/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/patients/"+id+"/notes", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteNote_CrossPatient(t *testing.T) {
	srv := newTestServer(t, Options{})
	owner := createPatient(t, srv.URL, patientBody("Alice", "Smith", "alice@example.com"))
	other := createPatient(t, srv.URL, patientBody("Bob", "Jones", "bob@example.com"))

	resp, note := doJSON(t, http.MethodPost, srv.URL+"/api/patients/"+owner+"/notes", map[string]any{
		"content":   "Stable vitals.",
		"timestamp": "2025-01-10T09:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	noteID, _ := note["id"].(string)

	// borrar vía el paciente equivocado: not found, y la nota sobrevive
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/patients/%s/notes/%s", srv.URL, other, noteID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	listResp, err := http.Get(srv.URL + "/api/patients/" + owner + "/notes")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var listed []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	assert.Len(t, listed, 1)

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/patients/%s/notes/%s", srv.URL, owner, noteID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSummary_Template(t *testing.T) {
	srv := newTestServer(t, Options{})
	id := createPatient(t, srv.URL, patientBody("Alice", "Smith", "alice@example.com"))

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/patients/"+id+"/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "template", got["mode"])
	text, _ := got["summary"].(string)
	assert.Contains(t, text, "Alice Smith is a")
	assert.Contains(t, text, "No clinical notes on file.")
}

func TestSummary_UnknownPatient(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/patients/nope/summary", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSummary_LLM(t *testing.T) {
	srv := newTestServer(t, Options{Generator: fixedGenerator{text: "A narrative summary."}})
	id := createPatient(t, srv.URL, patientBody("Alice", "Smith", "alice@example.com"))

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/patients/"+id+"/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "llm", got["mode"])
	assert.Equal(t, "A narrative summary.", got["summary"])
}

func TestSummary_FallsBackWhenLLMFails(t *testing.T) {
	srv := newTestServer(t, Options{Generator: failingGenerator{}})
	id := createPatient(t, srv.URL, patientBody("Alice", "Smith", "alice@example.com"))

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/patients/"+id+"/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "llm failure never surfaces as an error")
	assert.Equal(t, "template", got["mode"])
}

func TestSeedData(t *testing.T) {
	srv := newTestServer(t, Options{Config: config.Config{SeedData: true}})

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/patients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, got["total"])
}
