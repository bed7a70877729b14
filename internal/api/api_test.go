package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/escape-the-danger/internal/feed"
	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/logging"
	"github.com/ericogr/escape-the-danger/internal/service"
	"github.com/ericogr/escape-the-danger/internal/storage"
)

const testOperatorKey = "let-me-in"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type testServer struct {
	router *gin.Engine
	hub    *feed.Hub
	token  string
}

func newTestServer(t *testing.T, operatorKey string) *testServer {
	t.Helper()
	items := []game.Item{{Key: "shield", Title: "Shield", Cost: 300, Available: 2, Effects: game.Effects{Immune: true, ImmuneDuration: 2}}}
	db, err := storage.OpenAndMigrate(filepath.Join(t.TempDir(), "escape.db"), items)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	rules := game.DefaultRules()
	rules.StreamerDrawTurns = nil
	rules.DangerDrawTurns = nil
	hub := feed.NewHub()
	svc := service.New(storage.NewSQLiteRepository(db), service.Options{Rules: rules, Publisher: hub})
	h := NewGameHandler(svc, hub, AuthConfig{OperatorKey: operatorKey, SessionSecret: "test-secret", TokenTTL: time.Hour})
	return &testServer{router: SetupRouter(h), hub: hub}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	w, out := s.do(t, http.MethodPost, "/api/auth/token", map[string]string{"key": testOperatorKey})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.token = out["token"].(string)
	require.NotEmpty(t, s.token)
}

func (s *testServer) start(t *testing.T) uint {
	t.Helper()
	w, out := s.do(t, http.MethodPost, "/api/games", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := out["game"].(map[string]interface{})
	return uint(g["id"].(float64))
}

func gamePath(id uint, suffix string) string {
	return fmt.Sprintf("/api/games/%d%s", id, suffix)
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t, "")
	w, out := s.do(t, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])

	w, out = s.do(t, http.MethodGet, "/api/version", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dev", out["version"])
}

func TestOperatorAuth(t *testing.T) {
	s := newTestServer(t, testOperatorKey)

	w, _ := s.do(t, http.MethodPost, "/api/games", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/auth/token", map[string]string{"key": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.token = "not-a-jwt"
	w, _ = s.do(t, http.MethodPost, "/api/games", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login(t)
	id := s.start(t)
	assert.NotZero(t, id)

	// reads stay public
	s.token = ""
	w, _ = s.do(t, http.MethodGet, "/api/games/active", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthDisabled(t *testing.T) {
	s := newTestServer(t, "")
	w, _ := s.do(t, http.MethodPost, "/api/auth/token", map[string]string{"key": "anything"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotZero(t, s.start(t))
}

func TestGameCommands(t *testing.T) {
	s := newTestServer(t, testOperatorKey)
	s.login(t)
	id := s.start(t)

	w, out := s.do(t, http.MethodPost, "/api/games", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, out["error"], "already in progress")

	w, out = s.do(t, http.MethodPost, gamePath(id, "/turn"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, out["game"].(map[string]interface{})["turn"])
	assert.NotEmpty(t, out["batch"])

	w, _ = s.do(t, http.MethodPost, gamePath(id, "/move"), map[string]interface{}{"role": "streamer", "distance": "3"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(t, http.MethodPost, gamePath(id, "/move"), map[string]interface{}{"role": "streamer", "distance": 2.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(t, http.MethodPost, gamePath(id, "/move"), map[string]interface{}{"role": "ghost", "distance": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, gamePath(id, "/items/use"), map[string]string{"role": "streamer", "item": "shield"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "nothing held")

	w, out = s.do(t, http.MethodPost, gamePath(id, "/donations"), map[string]interface{}{"username": "fan", "bits": 500})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "fan donated 500 bits and gifted a Shield!", out["game"].(map[string]interface{})["message"])

	w, _ = s.do(t, http.MethodPost, gamePath(id, "/items/use"), map[string]string{"role": "streamer", "item": "shield"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPost, gamePath(id, "/health"), map[string]interface{}{"role": "danger", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, gamePath(id, "/pause"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, gamePath(id, "/turn"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = s.do(t, http.MethodPost, gamePath(id, "/end"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, gamePath(id+50, "/turn"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/games/abc/turn", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	id := s.start(t)
	s.do(t, http.MethodPost, gamePath(id, "/inventory"), map[string]interface{}{"role": "danger", "item": "shield", "amount": 5})

	w, out := s.do(t, http.MethodGet, gamePath(id, ""), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out, "cards_left")

	req := httptest.NewRequest(http.MethodGet, gamePath(id, "/inventory/danger"), nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var inv []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	require.Len(t, inv, 1)
	assert.EqualValues(t, 2, inv[0]["quantity"], "capped at available")

	req = httptest.NewRequest(http.MethodGet, gamePath(id, "/events?after=0"), nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "game_started", events[0]["event_type"])
	assert.Equal(t, "inventory_gain", events[1]["event_type"])

	w, _ = s.do(t, http.MethodGet, gamePath(id, "/events?after=x"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/items", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedStreamsCommittedBatches(t *testing.T) {
	s := newTestServer(t, "")
	id := s.start(t)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + gamePath(id, "/feed")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool { return s.hub.Subscribers(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	w, out := s.do(t, http.MethodPost, gamePath(id, "/turn"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msg map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, out["batch"], msg["batch"])
	assert.NotEmpty(t, msg["events"])
}

func TestParseDistance(t *testing.T) {
	for _, tc := range []struct {
		in   interface{}
		want int
		ok   bool
	}{
		{float64(3), 3, true},
		{float64(-2), -2, true},
		{"4", 4, true},
		{" 7 ", 7, true},
		{json.Number("5"), 5, true},
		{2.5, 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	} {
		got, err := parseDistance(tc.in)
		if tc.ok {
			assert.NoError(t, err, "%v", tc.in)
			assert.Equal(t, tc.want, got)
		} else {
			assert.ErrorIs(t, err, game.ErrInvalidDistance, "%v", tc.in)
		}
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(game.ErrGameNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(game.ErrUnknownRole))
	assert.Equal(t, http.StatusBadRequest, statusFor(game.ErrItemUnavailable))
	assert.Equal(t, http.StatusConflict, statusFor(game.ErrGameFinished))
	assert.Equal(t, http.StatusConflict, statusFor(game.ErrCardRace))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
