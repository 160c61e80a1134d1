package server

import (
	"battlescape-server/internal/config"
	"battlescape-server/internal/engine"
	"battlescape-server/internal/filter"
	"battlescape-server/internal/network"
	"battlescape-server/internal/sim"
	"battlescape-server/internal/version"
	"battlescape-server/pkg/api"
	"battlescape-server/pkg/logger"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := engine.NewConfig()
	cfg.Seed = 11
	cfg.SquadSize = 2
	cvars := config.New()
	cvars.SetInt(config.AINumAliens, 2)
	cvars.SetInt(config.AINumCivilians, 1)

	f := filter.New()
	svc, err := engine.NewService(cfg, engine.ServiceOptions{
		Cvars:   cvars,
		Console: &sim.RecordingConsole{},
		Filter:  f,
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	svc.Start(ctx)

	s := New(svc, f, cvars, "0")
	mux := http.NewServeMux()
	s.Routes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return s, ts
}

func TestHealthAndVersion(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var info version.VersionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, version.ProtocolVersion, info.Protocol)
}

func TestWS_Banned(t *testing.T) {
	s, ts := newTestServer(t)
	require.NoError(t, s.Filter.Add("127.0.0.1"))

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWS_LoginAndEndRound(t *testing.T) {
	_, ts := newTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(api.ClientCommand{
		Token:   "Alice",
		Action:  api.ActionLogin,
		Payload: json.RawMessage(`{"team":1,"protocol":3}`),
	}))

	welcome := readFrame(t, conn)
	assert.Equal(t, api.FrameWelcome, welcome.Type)
	assert.Equal(t, 1, welcome.Team)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: api.ActionEndRound}))
	for {
		f := readFrame(t, conn)
		if hasEvent(f, "EV_ENDROUND") {
			break
		}
	}

	// неизвестное действие возвращается кадром ERROR
	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "DANCE"}))
	for {
		f := readFrame(t, conn)
		if f.Type == api.FrameError {
			assert.Contains(t, f.Text, "DANCE")
			break
		}
	}
}

func TestWS_LoginRefused(t *testing.T) {
	_, ts := newTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(api.ClientCommand{
		Action:  api.ActionLogin,
		Payload: json.RawMessage(`{"team":1,"protocol":2}`),
	}))
	f := readFrame(t, conn)
	assert.Equal(t, api.FrameError, f.Type)
	assert.Contains(t, f.Text, "protocol 2")
}

func TestDebugLevel(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/debug/level")
	require.NoError(t, err)
	defer resp.Body.Close()

	var view struct {
		Phase string `json:"phase"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "waiting", view.Phase)
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func readFrame(t *testing.T, conn *websocket.Conn) api.ServerFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	mt, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, mt)
	f, err := network.DecodeFrame(data)
	require.NoError(t, err)
	return f
}

func hasEvent(f api.ServerFrame, name string) bool {
	for _, ev := range f.Events {
		if ev.Name == name {
			return true
		}
	}
	return false
}
