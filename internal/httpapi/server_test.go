package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/idea-simulation-engine/internal/knowledge"
	"github.com/joelkehle/idea-simulation-engine/internal/report"
	"github.com/joelkehle/idea-simulation-engine/internal/simulation"
	"github.com/joelkehle/idea-simulation-engine/internal/store"
)

type testServer struct {
	handler http.Handler
	kb      *knowledge.Base
}

func newServerForTest(t *testing.T) testServer {
	t.Helper()
	kb, err := knowledge.Load("", nil)
	require.NoError(t, err)
	pub, err := report.NewPublisher(filepath.Join(t.TempDir(), "reports"), store.NewMemoryStore())
	require.NoError(t, err)
	engine := simulation.NewEngine(kb, simulation.WithPublisher(pub), simulation.WithRandom(simulation.NewRandomSource(11)))
	return testServer{
		handler: NewServer(Options{Simulator: engine, Reports: pub, Knowledge: kb}),
		kb:      kb,
	}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	blob, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(blob))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestSimulateAndDownload(t *testing.T) {
	ts := newServerForTest(t)

	rr := postJSON(t, ts.handler, "/api/simulate", map[string]string{"idea": "A cybersecurity compliance checker for Indian SMEs"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var res simulation.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Regexp(t, `^SIM_[0-9A-F]{8}$`, res.ReportID)
	assert.True(t, res.IdeaDNA.IsB2B)
	assert.Equal(t, res.ReportID, res.ReportData.ReportID)
	assert.Empty(t, res.ReportError)

	dl := postJSON(t, ts.handler, "/api/download-report", map[string]string{"report_id": res.ReportID})
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, report.ContentTypeHTML, dl.Header().Get("Content-Type"))
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "Report_"+res.ReportID+".html")
	assert.Contains(t, dl.Body.String(), "Competitor Weakness Map")

	byPath := get(ts.handler, "/api/reports/"+res.ReportID)
	require.Equal(t, http.StatusOK, byPath.Code)
	assert.Equal(t, dl.Body.String(), byPath.Body.String())

	wb := get(ts.handler, "/api/reports/"+res.ReportID+"/workbook")
	require.Equal(t, http.StatusOK, wb.Code)
	assert.Equal(t, report.ContentTypeXLSX, wb.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(wb.Body.Bytes(), []byte("PK")))
}

func TestSimulateRejectsEmptyIdea(t *testing.T) {
	ts := newServerForTest(t)
	for _, body := range []any{map[string]string{"idea": "   "}, map[string]string{}} {
		rr := postJSON(t, ts.handler, "/api/simulate", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "No idea provided", decodeBody(t, rr)["error"])
	}

	req := httptest.NewRequest(http.MethodPost, "/api/simulate", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid JSON body", decodeBody(t, rr)["error"])
}

func TestDownloadUnknownReport(t *testing.T) {
	ts := newServerForTest(t)

	rr := postJSON(t, ts.handler, "/api/download-report", map[string]string{"report_id": "SIM_DEADBEEF"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "report not found", decodeBody(t, rr)["error"])

	rr = postJSON(t, ts.handler, "/api/download-report", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, http.StatusNotFound, get(ts.handler, "/api/reports/SIM_DEADBEEF").Code)
	assert.Equal(t, http.StatusNotFound, get(ts.handler, "/api/reports/SIM_DEADBEEF/workbook").Code)
}

func TestIndustryIdeas(t *testing.T) {
	ts := newServerForTest(t)

	rr := get(ts.handler, "/api/industry-ideas/health")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Ideas []string `json:"ideas"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	want, err := ts.kb.Ideas.Lookup("health")
	require.NoError(t, err)
	assert.Equal(t, want, body.Ideas)

	again := get(ts.handler, "/api/industry-ideas/health")
	assert.Equal(t, rr.Body.String(), again.Body.String())

	missing := get(ts.handler, "/api/industry-ideas/space")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "Industry not found", decodeBody(t, missing)["error"])
}

func TestKnowledgeStatusAndHealth(t *testing.T) {
	ts := newServerForTest(t)

	rr := get(ts.handler, "/api/knowledge/status")
	require.Equal(t, http.StatusOK, rr.Code)
	var st knowledge.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.False(t, st.Degraded)
	assert.Len(t, st.Tables, len(knowledge.Tables))

	health := get(ts.handler, "/healthz")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "ok", health.Body.String())
}

type failingSimulator struct{}

func (failingSimulator) Run(context.Context, string) (simulation.Result, error) {
	return simulation.Result{}, errors.New("boom")
}

func TestSimulateInternalErrorHidesDetails(t *testing.T) {
	h := NewServer(Options{Simulator: failingSimulator{}})
	rr := postJSON(t, h, "/api/simulate", map[string]string{"idea": "anything"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal error", decodeBody(t, rr)["error"])
}

func TestProcessingDelayStopsWhenClientLeaves(t *testing.T) {
	h := NewServer(Options{Simulator: failingSimulator{}, ProcessingDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/simulate", strings.NewReader(`{"idea":"x"}`)).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(rr, req)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not return after cancellation")
	}
	assert.Empty(t, rr.Body.String())
}
