package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/abacus"
	abacushttp "github.com/aretw0/abacus/pkg/adapters/http"
	"github.com/aretw0/abacus/pkg/domain"
)

func newHandler(t *testing.T, opts ...abacushttp.Option) http.Handler {
	t.Helper()
	calc, err := abacus.New()
	require.NoError(t, err)
	return abacushttp.NewHandler(calc, calc.NewManager(), opts...)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestEvaluate(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       domain.Outcome
		normalized string
	}{
		{"Arithmetic", `{"expression":"2+3*4"}`, http.StatusOK, domain.Success("14"), "2+3*4"},
		{"Degrees", `{"expression":"sin(30)","angle_mode":"degrees"}`, http.StatusOK, domain.Success("0.5"), "sin((pi/180)*30)"},
		{"Pi Glyph", `{"expression":"2*π"}`, http.StatusOK, domain.Success("6.2831853071796"), "2*pi"},
		{"Empty Is Zero", `{"expression":""}`, http.StatusOK, domain.Success("0"), ""},
		{"Invalid", `{"expression":"2+"}`, http.StatusOK, domain.Failure(domain.ErrorInvalidExpression), "2+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/evaluate", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)

			resp := decode[abacushttp.EvaluateResponse](t, w)
			assert.Equal(t, tt.want, resp.Outcome)
			assert.Equal(t, tt.normalized, resp.Normalized)
		})
	}
}

func TestEvaluate_BadRequests(t *testing.T) {
	h := newHandler(t, abacushttp.WithMaxInputSize(8))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/evaluate", `{"expression":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/evaluate", `{"expression":"1","angle_mode":"grad"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/evaluate", `{"expression":"1+1+1+1+1"}`).Code)
}

func TestSessionLifecycle(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[abacushttp.SessionResponse](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, domain.AngleRadians, created.State.AngleMode)
	assert.Empty(t, created.State.History)

	path := "/sessions/" + created.ID

	w = do(t, h, http.MethodPost, path+"/commands", `[{"command":"set","text":"1+1"},{"command":"evaluate"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	applied := decode[abacushttp.SessionResponse](t, w)
	require.NotNil(t, applied.Outcome)
	assert.Equal(t, "2", applied.Outcome.ResultText)
	assert.Equal(t, "2", applied.State.Output)
	require.Len(t, applied.State.History, 1)

	w = do(t, h, http.MethodPost, path+"/commands", `{"command":"press","label":"+"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1+1+", decode[abacushttp.SessionResponse](t, w).State.Expression)

	w = do(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1+1+", decode[abacushttp.SessionResponse](t, w).State.Expression)

	w = do(t, h, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[map[string][]string](t, w)["sessions"], created.ID)

	w = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyCommands_Errors(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodPost, "/sessions/missing/commands", `{"command":"clear"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	created := decode[abacushttp.SessionResponse](t, do(t, h, http.MethodPost, "/sessions", ""))
	path := "/sessions/" + created.ID + "/commands"

	for _, body := range []string{
		`{"command":"fly"}`,
		`{"command":"view","view":"sideways"}`,
		`{"command":"recall","index":4}`,
		`{"command":"press","label":"sin("}`,
		`not json`,
	} {
		w := do(t, h, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w = do(t, h, http.MethodPost, path, `{"command":"set","text":"2+"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodPost, path, `{"command":"evaluate"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[abacushttp.SessionResponse](t, w)
	assert.True(t, resp.State.Error)
	assert.Equal(t, domain.InvalidExpressionMessage, resp.State.ErrorMessage)
}

func TestGetKeypad(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodGet, "/keypad/scientific", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[abacushttp.KeypadResponse](t, w)
	assert.Equal(t, domain.ViewScientific, resp.View)

	labels := make([]string, 0, len(resp.Buttons))
	for _, b := range resp.Buttons {
		labels = append(labels, b.Label)
	}
	assert.Contains(t, labels, "√")
	assert.Contains(t, labels, "ANS")

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/keypad/graphing", "").Code)
}

func TestCORSAndInfo(t *testing.T) {
	h := newHandler(t, abacushttp.WithVersion("1.0.0\n"))

	w := do(t, h, http.MethodOptions, "/evaluate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.0.0", decode[map[string]string](t, w)["version"])

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestMetricsMount(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("abacus_evaluations_total 1\n"))
	})
	h := newHandler(t, abacushttp.WithMetricsHandler(metrics))

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abacus_evaluations_total")

	assert.Equal(t, http.StatusNotFound, do(t, newHandler(t), http.MethodGet, "/metrics", "").Code)
}

func TestSubscribeEvents_SessionDiff(t *testing.T) {
	calc, err := abacus.New()
	require.NoError(t, err)
	server := abacushttp.NewServer(calc, calc.NewManager())
	ts := httptest.NewServer(server.Routes())
	defer ts.Close()

	created := decode[abacushttp.SessionResponse](t, do(t, server.Routes(), http.MethodPost, "/sessions", ""))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/"+created.ID+"/events?watch=history", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	require.Equal(t, "event: ping", <-lines)
	require.Eventually(t, func() bool { return server.Streams.Subscribers(created.ID) == 1 }, time.Second, 10*time.Millisecond)

	post := func(body string) {
		r, err := http.Post(ts.URL+"/sessions/"+created.ID+"/commands", "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		r.Body.Close()
		require.Equal(t, http.StatusOK, r.StatusCode)
	}

	// Filtered out: only the expression changes.
	post(`{"command":"insert","text":"6*7"}`)
	post(`{"command":"evaluate"}`)

	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if !strings.HasPrefix(line, "data: {") {
				continue
			}
			var diff domain.StateDiff
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &diff))
			require.NotNil(t, diff.History)
			require.Len(t, diff.History.Prepended, 1)
			assert.Equal(t, "42", diff.History.Prepended[0].ResultText)
			assert.Nil(t, diff.Expression)
			return
		case <-ctx.Done():
			t.Fatal("no diff received")
		}
	}
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	w := do(t, newHandler(t), http.MethodGet, "/sessions/nope/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContract(t *testing.T) {
	doc, err := abacushttp.Contract()
	require.NoError(t, err)

	for _, path := range []string{"/evaluate", "/sessions/{id}/commands", "/sessions/{id}/events", "/keypad/{view}"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}

	w := do(t, newHandler(t), http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "operationId: applyCommands")

	w = do(t, newHandler(t), http.MethodGet, "/swagger", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/openapi.yaml")
}

func TestContract_RejectsMalformedBodies(t *testing.T) {
	h := newHandler(t)

	for _, body := range []string{
		``,
		`{"angle_mode":"degrees"}`,
		`{"expression":42}`,
		`["2+2"]`,
	} {
		w := do(t, h, http.MethodPost, "/evaluate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.NotEmpty(t, decode[map[string]string](t, w)["error"], body)
	}

	created := decode[abacushttp.SessionResponse](t, do(t, h, http.MethodPost, "/sessions", ""))
	path := "/sessions/" + created.ID + "/commands"

	for _, body := range []string{
		`{"text":"1+1"}`,
		`[{"command":"set","text":"1"},{"text":"2"}]`,
		`{"command":"recall","index":"first"}`,
		`"evaluate"`,
	} {
		w := do(t, h, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	st := decode[abacushttp.SessionResponse](t, do(t, h, http.MethodGet, "/sessions/"+created.ID, ""))
	assert.Empty(t, st.State.Expression, "rejected batches must not touch the session")

	w := do(t, h, http.MethodPost, "/evaluate", `{"expression":"6*7"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Success("42"), decode[abacushttp.EvaluateResponse](t, w).Outcome)
}
