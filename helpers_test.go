/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/statline/trivia"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var homeRuns = trivia.Stat{Key: "hr", Label: "Home Runs", Superlative: "highest", Polarity: trivia.Maximize}

func testConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		maxDeviation:   1.0,
		port:           8080,
		seed:           7,
		sessionTimeout: 0,
		timedSeconds:   60,
	}
}

// testCatalog has exactly four NYY right fielders, so every round asks about
// all of them. BOS is a known team with nobody on it.
func testCatalog(t *testing.T, values ...float64) *trivia.Catalog {
	t.Helper()

	if len(values) == 0 {
		values = []float64{10, 20, 30, 40}
	}

	names := []string{"Alpha", "Bravo", "Charlie", "Delta"}

	players := make([]trivia.Player, len(values))
	for i, v := range values {
		players[i] = trivia.NewPlayer(names[i], "NYY", "RF", map[trivia.StatKey]float64{"hr": v})
	}

	c, err := trivia.NewCatalog(players,
		[]trivia.Stat{homeRuns},
		[]trivia.Team{{Key: "NYY", Label: "New York Yankees", ShortLabel: "NYY"}, {Key: "BOS", Label: "Boston Red Sox", ShortLabel: "BOS"}},
		[]trivia.Position{{Key: "RF", Label: "Right Field"}},
	)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func newTestServer(t *testing.T, cfg *Config, catalog *trivia.Catalog, tick time.Duration) (*httptest.Server, *GameManager) {
	t.Helper()

	gm := newGameManager(cfg, catalog)
	gm.tick = tick

	errs := make(chan error, 16)

	mux := httprouter.New()
	mux.GET(cfg.prefix+"/api/catalog", serveCatalog(cfg, catalog, errs))
	registerTriviaGame(cfg, "/play", gm, mux, errs)

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		gm.Close()
		srv.Close()
	})

	return srv, gm
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/play/" + gameID + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

type envelope struct {
	Type string `json:"type"`
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return env.Type, data
}

// expect reads the next message and fails unless it has type typ.
func expect[T any](t *testing.T, conn *websocket.Conn, typ string) T {
	t.Helper()

	got, data := readMessage(t, conn)
	if got != typ {
		t.Fatalf("got %q message, want %q: %s", got, typ, data)
	}

	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

// skipTo reads until a message of type typ arrives.
func skipTo[T any](t *testing.T, conn *websocket.Conn, typ string) T {
	t.Helper()

	for {
		got, data := readMessage(t, conn)
		if got != typ {
			continue
		}

		var msg T
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		return msg
	}
}

func write(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()

	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func intPtr(i int) *int {
	return &i
}
