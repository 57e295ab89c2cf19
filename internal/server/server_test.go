package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"tally/internal/clients"
	"tally/internal/config"
	"tally/internal/entry"
	"tally/internal/roster"
	"tally/internal/service"
	"tally/internal/storage"
)

func newTestServer(t *testing.T, token string) *Server {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, storage.DatabaseFile))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	svc, err := service.NewServicesWithDeps(store, roster.Empty(), clients.NewStore(filepath.Join(dir, clients.TableFile)), cfg)
	if err != nil {
		t.Fatalf("build services: %v", err)
	}

	return New(svc, token)
}

// do runs one request against the server and returns the recorder
func do(t *testing.T, s *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeEntry(t *testing.T, w *httptest.ResponseRecorder) entry.Entry {
	t.Helper()
	var e entry.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode entry: %v (body %s)", err, w.Body.String())
	}
	return e
}

func TestHealthzIsUnauthenticated(t *testing.T) {
	s := newTestServer(t, "secret")
	if w := do(t, s, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuthToken(t *testing.T) {
	s := newTestServer(t, "secret")

	if w := do(t, s, http.MethodGet, "/api/entries", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", w.Code)
	}

	header := map[string]string{"Authorization": "Bearer wrong"}
	if w := do(t, s, http.MethodGet, "/api/entries", "", header); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", w.Code)
	}

	header["Authorization"] = "Bearer secret"
	if w := do(t, s, http.MethodGet, "/api/entries", "", header); w.Code != http.StatusOK {
		t.Errorf("good token: status = %d, want 200", w.Code)
	}
}

func TestEmptyTokenDisablesAuth(t *testing.T) {
	s := newTestServer(t, "")
	if w := do(t, s, http.MethodGet, "/api/entries", "", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, "")

	w := do(t, s, http.MethodPost, "/api/sessions/start", `{"client":"Acme","note":"kickoff"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("start: status = %d (%s)", w.Code, w.Body.String())
	}
	started := decodeEntry(t, w)
	if started.Client != "Acme" || !started.IsOpen() {
		t.Errorf("started = %+v", started)
	}

	w = do(t, s, http.MethodGet, "/api/sessions/active", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("active: status = %d", w.Code)
	}
	var active struct {
		Sessions []entry.Entry `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &active); err != nil {
		t.Fatalf("decode active: %v", err)
	}
	if len(active.Sessions) != 1 {
		t.Fatalf("active sessions = %d, want 1", len(active.Sessions))
	}

	w = do(t, s, http.MethodPost, "/api/sessions/stop", `{"client":"Acme","note":"wrap"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stop: status = %d (%s)", w.Code, w.Body.String())
	}
	stopped := decodeEntry(t, w)
	if stopped.IsOpen() {
		t.Error("stopped session should be closed")
	}
	if stopped.Note != "kickoff\nwrap" {
		t.Errorf("note = %q", stopped.Note)
	}
}

func TestStopWithoutSessionIs404(t *testing.T) {
	s := newTestServer(t, "")
	w := do(t, s, http.MethodPost, "/api/sessions/stop", `{"client":"Acme"}`, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStopRequiresClient(t *testing.T) {
	s := newTestServer(t, "")

	do(t, s, http.MethodPost, "/api/sessions/start", `{"client":"Acme"}`, nil)

	for _, body := range []string{`{}`, `{"client":"  "}`} {
		w := do(t, s, http.MethodPost, "/api/sessions/stop", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("stop %s: status = %d, want 400", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), "client is required") {
			t.Errorf("stop %s: body = %s", body, w.Body.String())
		}
	}

	// The open session survives the rejected requests.
	w := do(t, s, http.MethodGet, "/api/sessions/active", "", nil)
	var active struct {
		Sessions []entry.Entry `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &active); err != nil {
		t.Fatalf("decode active: %v", err)
	}
	if len(active.Sessions) != 1 {
		t.Errorf("active sessions = %d, want 1", len(active.Sessions))
	}
}

func TestStartRequiresClient(t *testing.T) {
	s := newTestServer(t, "")
	w := do(t, s, http.MethodPost, "/api/sessions/start", `{"note":"x"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAddAndGetEntry(t *testing.T) {
	s := newTestServer(t, "")

	body := `{"client":"Acme","date":"1/15/2025","start":"9:00 AM","end":"9:52 AM"}`
	w := do(t, s, http.MethodPost, "/api/entries", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add: status = %d (%s)", w.Code, w.Body.String())
	}
	added := decodeEntry(t, w)
	if added.RoundedMinutes != 45 {
		t.Errorf("rounded_minutes = %d, want 45", added.RoundedMinutes)
	}

	w = do(t, s, http.MethodGet, "/api/entries/1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}
	if got := decodeEntry(t, w); got.ID != added.ID {
		t.Errorf("id = %d, want %d", got.ID, added.ID)
	}
}

func TestGetEntryErrors(t *testing.T) {
	s := newTestServer(t, "")

	if w := do(t, s, http.MethodGet, "/api/entries/404", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/api/entries/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", w.Code)
	}
}

func TestPatchEntry(t *testing.T) {
	s := newTestServer(t, "")

	do(t, s, http.MethodPost, "/api/sessions/start", `{"client":"Acme"}`, nil)

	w := do(t, s, http.MethodPatch, "/api/entries/1", `{"invoice_number":"INV-3","completed":1}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status = %d (%s)", w.Code, w.Body.String())
	}
	patched := decodeEntry(t, w)
	if patched.InvoiceNumber != "INV-3" || patched.Completed != 1 {
		t.Errorf("patched = %+v", patched)
	}

	if w := do(t, s, http.MethodPatch, "/api/entries/1", `{"minutes":999}`, nil); w.Code != http.StatusBadRequest {
		t.Errorf("derived field: status = %d, want 400", w.Code)
	}
}

func TestDeleteEntry(t *testing.T) {
	s := newTestServer(t, "")

	do(t, s, http.MethodPost, "/api/sessions/start", `{"client":"Acme"}`, nil)

	if w := do(t, s, http.MethodDelete, "/api/entries/1", "", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", w.Code)
	}
	if w := do(t, s, http.MethodDelete, "/api/entries/1", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestListEntriesQueryParams(t *testing.T) {
	s := newTestServer(t, "")

	do(t, s, http.MethodPost, "/api/sessions/start", `{"client":"Acme"}`, nil)
	do(t, s, http.MethodPost, "/api/sessions/start", `{"client":"Globex"}`, nil)

	w := do(t, s, http.MethodGet, "/api/entries?client=Globex", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var resp struct {
		Entries []entry.Entry `json:"entries"`
		Count   int           `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Entries[0].Client != "Globex" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestClientsEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	w := do(t, s, http.MethodPut, "/api/clients/Acme", `{"rate":150}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: status = %d (%s)", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodGet, "/api/clients", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"rate"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	s := newTestServer(t, "")

	do(t, s, http.MethodPost, "/api/sessions/start", `{"client":"Acme"}`, nil)

	w := do(t, s, http.MethodGet, "/api/export.csv?client=Acme", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,client,client_key,start_iso") {
		t.Errorf("header = %q", lines[0])
	}
}
