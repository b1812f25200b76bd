package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/parley/internal/metrics"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/codec"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
	"github.com/aretw0/parley/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helloGraph() *domain.Graph {
	return domain.NewGraph(
		&domain.Node{ID: "1", Text: "Hello", Choices: []domain.Choice{{Text: "Bye", TargetNodeID: "2"}}},
		&domain.Node{ID: "2", Text: "Goodbye", Choices: []domain.Choice{}},
	)
}

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	manager := session.NewManager(memory.NewStore())
	srv := httptest.NewServer(NewHandler(helloGraph(), manager, opts...))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func decodeView(t *testing.T, body string) player.View {
	t.Helper()
	var v player.View
	require.NoError(t, json.Unmarshal([]byte(body), &v), body)
	return v
}

func TestServer_PlaybackFlow(t *testing.T) {
	srv := newTestServer(t)

	code, body := do(t, srv, http.MethodPost, "/sessions/s1/start", "")
	require.Equal(t, http.StatusOK, code, body)
	v := decodeView(t, body)
	assert.Equal(t, "s1", v.SessionID)
	assert.Equal(t, "1", v.NodeID)
	assert.Equal(t, domain.StatusDisplaying, v.Status)
	assert.Equal(t, "Hello\n\n(click to continue)", v.Text)
	assert.Empty(t, v.Choices)

	code, body = do(t, srv, http.MethodPost, "/sessions/s1/continue", "")
	require.Equal(t, http.StatusOK, code, body)
	v = decodeView(t, body)
	assert.Equal(t, []player.Option{{Index: 0, Label: "Bye"}}, v.Choices)

	code, body = do(t, srv, http.MethodPost, "/sessions/s1/choose/0", "")
	require.Equal(t, http.StatusOK, code, body)
	v = decodeView(t, body)
	assert.Equal(t, "2", v.NodeID)
	assert.Equal(t, "Goodbye\n\n(click to continue)", v.Text)
	assert.Equal(t, []string{"1", "2"}, v.History)

	code, body = do(t, srv, http.MethodGet, "/sessions/s1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2", decodeView(t, body).NodeID)

	code, body = do(t, srv, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"sessions": ["s1"]}`, body)

	code, _ = do(t, srv, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, srv, http.MethodGet, "/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_StartNode(t *testing.T) {
	srv := newTestServer(t, WithStartNode("2"))

	_, body := do(t, srv, http.MethodPost, "/sessions/a/start", "")
	assert.Equal(t, "2", decodeView(t, body).NodeID)

	_, body = do(t, srv, http.MethodPost, "/sessions/b/start", `{"node_id": "1"}`)
	assert.Equal(t, "1", decodeView(t, body).NodeID)

	code, body := do(t, srv, http.MethodPost, "/sessions/c/start", `{"node_id": "ghost"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.StatusEnded, decodeView(t, body).Status)

	code, _ = do(t, srv, http.MethodPost, "/sessions/d/start", `{`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	code, _ := do(t, srv, http.MethodPost, "/sessions/nope/continue", "")
	assert.Equal(t, http.StatusNotFound, code)

	do(t, srv, http.MethodPost, "/sessions/s1/start", "")

	code, _ = do(t, srv, http.MethodPost, "/sessions/s1/choose/5", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, http.MethodPost, "/sessions/s1/choose/first", "")
	assert.Equal(t, http.StatusBadRequest, code)

	// The rejected choice left the session on node 1.
	_, body := do(t, srv, http.MethodGet, "/sessions/s1", "")
	assert.Equal(t, "1", decodeView(t, body).NodeID)

	do(t, srv, http.MethodPost, "/sessions/s2/start", `{"node_id": "ghost"}`)
	code, _ = do(t, srv, http.MethodPost, "/sessions/s2/choose/0", "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestServer_GetGraph(t *testing.T) {
	srv := newTestServer(t)

	code, body := do(t, srv, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, code)

	g, err := codec.Unmarshal([]byte(body), codec.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestServer_HealthAndInfo(t *testing.T) {
	srv := newTestServer(t)

	code, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status": "ok"}`, body)

	_, body = do(t, srv, http.MethodGet, "/info", "")
	assert.Contains(t, body, `"app":"parley-http"`)
}

func TestServer_Metrics(t *testing.T) {
	c := metrics.New()
	manager := session.NewManager(memory.NewStore(), session.WithEngineOptions(player.WithHooks(c.Hooks())))
	srv := httptest.NewServer(NewHandler(helloGraph(), manager, WithMetrics(c)))
	defer srv.Close()

	do(t, srv, http.MethodPost, "/sessions/s1/start", "")
	do(t, srv, http.MethodPost, "/sessions/nope/continue", "")

	code, body := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `parley_node_visits_total{node_id="1"} 1`)
	assert.Contains(t, body, `parley_http_requests_total{route="/sessions/{id}/start",status="200"} 1`)
	assert.Contains(t, body, `parley_http_requests_total{route="/sessions/{id}/continue",status="404"} 1`)
}

func TestSubscribeEvents_Session(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?session_id=s1", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	// The ping was flushed after subscribing, so the start is observed.
	do(t, srv, http.MethodPost, "/sessions/s1/start", "")

	for lines.Scan() {
		line := lines.Text()
		if !strings.HasPrefix(line, "data: {") {
			continue
		}
		v := decodeView(t, strings.TrimPrefix(line, "data: "))
		assert.Equal(t, "s1", v.SessionID)
		assert.Equal(t, "1", v.NodeID)
		return
	}
	t.Fatal("no view received")
}

func TestSubscribeEvents_RequiresSession(t *testing.T) {
	srv := newTestServer(t)

	code, _ := do(t, srv, http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s1")

	for i := 0; i < 20; i++ {
		sm.Broadcast("s1", "msg")
	}
	assert.Len(t, ch, cap(ch))

	cancel()
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	assert.Empty(t, sm.subscribers)
}
