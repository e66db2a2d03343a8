// statline trivia game
//
// Each game ID is one board: four players and a statistic, and whoever is
// looking at the board picks the player with the best value for it.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Every connection to a game sees the same round and the same score
// - Team, position and statistic filters narrow the next rounds
// - Ties are scored as correct for every tied player
// - Timed games count down server-side and end with a final score
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current game, backed by go-qrcode

package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"hash/fnv"
	mrand "math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/statline/trivia"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	maxTimedSeconds = 3600
	maxGameIDLength = 32
	maxMessageSize  = 4096
	writeWait       = 10 * time.Second
)

// Messages coming from clients
type ClientMessage struct {
	Type      string   `json:"type"`                // "filters", "answer", "next", "reset", "start_timed"
	Teams     []string `json:"teams,omitempty"`     // filters
	Positions []string `json:"positions,omitempty"` // filters
	Stats     []string `json:"stats,omitempty"`     // filters
	Index     *int     `json:"index,omitempty"`     // answer
	Seconds   int      `json:"seconds,omitempty"`   // start_timed, 0 uses --timed-seconds
}

type Score struct {
	Correct  int    `json:"correct"`
	Answered int    `json:"answered"`
	Text     string `json:"text"`
}

func newScore(correct, answered int) Score {
	return Score{
		Correct:  correct,
		Answered: answered,
		Text:     fmt.Sprintf("Score: %d / %d", correct, answered),
	}
}

// SessionInfoMessage is sent immediately on connect.
type SessionInfoMessage struct {
	Type      string        `json:"type"` // "session_info"
	GameID    string        `json:"game_id"`
	Filter    trivia.Filter `json:"filter"`
	Score     Score         `json:"score"`
	Timed     bool          `json:"timed"`
	Remaining int           `json:"remaining,omitempty"`
}

// QuestionMessage starts a round. Choices always has four entries; slots past
// the end of a small pool are empty strings.
type QuestionMessage struct {
	Type    string      `json:"type"` // "question"
	Round   int         `json:"round"`
	Stat    trivia.Stat `json:"stat"`
	Prompt  string      `json:"prompt"`
	Choices []string    `json:"choices"`
	Score   Score       `json:"score"`
}

type Choice struct {
	Name   string `json:"name"`
	Winner bool   `json:"winner"`
}

// ResultMessage reveals the answer for the current round.
type ResultMessage struct {
	Type    string   `json:"type"` // "result"
	Round   int      `json:"round"`
	Index   int      `json:"index"`
	Correct bool     `json:"correct"`
	Title   string   `json:"title"`
	Detail  string   `json:"detail"`
	Choices []Choice `json:"choices"`
	Score   Score    `json:"score"`
}

type TimerMessage struct {
	Type      string `json:"type"` // "timer"
	Remaining int    `json:"remaining"`
	Display   string `json:"display"`
}

type GameOverMessage struct {
	Type  string `json:"type"` // "game_over"
	Score Score  `json:"score"`
}

// SimpleMessage is for errors and notices.
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	id   string
	conn *websocket.Conn
	send chan any
}

type clientAction struct {
	client *Client
	msg    ClientMessage
}

type timerTick struct {
	gen       int
	remaining int
}

// Hub owns a single game. Round and score state is only touched from run.
type Hub struct {
	id      string
	cfg     *Config
	catalog *trivia.Catalog
	rng     *mrand.Rand
	tick    time.Duration

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan clientAction
	ticks    chan timerTick
	quit     chan struct{}
	quitOnce sync.Once

	mu         sync.RWMutex
	lastActive time.Time

	filter   trivia.Filter
	round    int
	question *trivia.Question
	result   *trivia.Result
	correct  int
	answered int

	timerGen  int
	timerStop chan struct{}
	remaining int // -1 when no timed game is running
}

func newHub(cfg *Config, catalog *trivia.Catalog, gameID string, tick time.Duration) *Hub {
	return &Hub{
		id:         gameID,
		cfg:        cfg,
		catalog:    catalog,
		rng:        trivia.NewRand(gameSeed(cfg.seed, gameID)),
		tick:       tick,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		actions:    make(chan clientAction),
		ticks:      make(chan timerTick),
		quit:       make(chan struct{}),
		lastActive: time.Now(),
		remaining:  -1,
	}
}

// gameSeed keeps seeded servers reproducible per game while still giving
// different games different boards.
func gameSeed(seed uint64, gameID string) uint64 {
	if seed == 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(gameID))
	return seed ^ h.Sum64()
}

func (h *Hub) run() {
	defer h.shutdown()

	for {
		select {
		case c := <-h.register:
			h.touch()
			h.clients[c] = true
			logf(h.cfg, "GAMES: Client %s joined %s", c.id, h.id)

			h.send(c, SessionInfoMessage{
				Type:      "session_info",
				GameID:    h.id,
				Filter:    h.filter,
				Score:     h.score(),
				Timed:     h.remaining >= 0,
				Remaining: max(h.remaining, 0),
			})

			if h.question == nil {
				h.newRound()
			} else {
				h.sendRound(c)
			}

		case c := <-h.unreg:
			h.touch()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				logf(h.cfg, "GAMES: Client %s left %s", c.id, h.id)
			}

		case a := <-h.actions:
			h.touch()
			h.handleAction(a)

		case t := <-h.ticks:
			h.handleTick(t)

		case <-h.quit:
			return
		}
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActive
}

// close stops the hub and disconnects its clients.
func (h *Hub) close() {
	h.quitOnce.Do(func() {
		close(h.quit)
	})
}

func (h *Hub) shutdown() {
	h.stopTimer()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}

	logf(h.cfg, "GAMES: Closed %s", h.id)
}

// join, submit and leave hand work to run, giving up once the hub is closed.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) submit(a clientAction) {
	select {
	case h.actions <- a:
	case <-h.quit:
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.quit:
	}
}

func (h *Hub) send(c *Client, msg any) {
	if !h.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(msg any) {
	for c := range h.clients {
		h.send(c, msg)
	}
}

func (h *Hub) score() Score {
	return newScore(h.correct, h.answered)
}

func (h *Hub) resetScore() {
	h.correct = 0
	h.answered = 0
}

func (h *Hub) handleAction(a clientAction) {
	msg := a.msg

	switch msg.Type {
	case "answer":
		if msg.Index == nil {
			return
		}
		h.answer(*msg.Index)

	case "next":
		h.newRound()

	case "reset":
		h.stopTimer()
		h.resetScore()
		h.newRound()

	case "start_timed":
		h.startTimed(msg.Seconds)

	case "filters":
		f, err := trivia.Filter{
			Teams:     msg.Teams,
			Positions: msg.Positions,
			Stats:     msg.Stats,
		}.Normalize(h.catalog)
		if err != nil {
			h.send(a.client, SimpleMessage{Type: "error", Message: err.Error()})
			return
		}

		h.filter = f
		logf(h.cfg, "GAMES: Filters for %s set to teams=%v positions=%v stats=%v", h.id, f.Teams, f.Positions, f.Stats)

		h.newRound()
	}
}

// newRound replaces the current question. When the filters leave nobody to
// ask about, the board is cleared and every client is told why.
func (h *Hub) newRound() {
	stat, err := h.catalog.RandomStat(h.rng, h.filter)

	var q *trivia.Question
	if err == nil {
		q, err = trivia.NewQuestion(h.rng, h.catalog, stat, h.filter, h.cfg.maxDeviation)
	}

	if err != nil {
		h.question = nil
		h.result = nil

		text := "Unable to create a question."
		if errors.Is(err, trivia.ErrEmptyPool) {
			text = "No players match the current filters. Choose different teams or positions."
		}
		logf(h.cfg, "GAMES: No question for %s: %v", h.id, err)

		h.broadcast(SimpleMessage{Type: "error", Message: text})
		return
	}

	h.round++
	h.question = q
	h.result = nil

	h.broadcast(h.questionMessage())
}

func (h *Hub) answer(index int) {
	if h.question == nil || h.result != nil {
		return
	}
	if _, ok := h.question.PlayerAt(index); !ok {
		return
	}

	res := h.question.Grade(index)
	h.result = &res

	h.answered++
	if res.Correct {
		h.correct++
	}

	h.broadcast(h.resultMessage())
}

func (h *Hub) sendRound(c *Client) {
	if h.question == nil {
		return
	}

	h.send(c, h.questionMessage())

	if h.result != nil {
		h.send(c, h.resultMessage())
	}
}

func (h *Hub) questionMessage() QuestionMessage {
	q := h.question
	stat := q.Stat()

	choices := make([]string, trivia.GroupSize)
	for i := range choices {
		choices[i] = q.PlayerName(i, false)
	}

	return QuestionMessage{
		Type:    "question",
		Round:   h.round,
		Stat:    stat,
		Prompt:  fmt.Sprintf("Who has the %s %s?", stat.Superlative, stat.Label),
		Choices: choices,
		Score:   h.score(),
	}
}

func (h *Hub) resultMessage() ResultMessage {
	q := h.question

	choices := make([]Choice, trivia.GroupSize)
	for i := range choices {
		choices[i] = Choice{
			Name:   q.PlayerName(i, true),
			Winner: q.IsWinningIndex(i),
		}
	}

	return ResultMessage{
		Type:    "result",
		Round:   h.round,
		Index:   h.result.Index,
		Correct: h.result.Correct,
		Title:   h.result.Title,
		Detail:  h.result.Detail,
		Choices: choices,
		Score:   h.score(),
	}
}

func timerDisplay(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (h *Hub) startTimed(seconds int) {
	if seconds <= 0 {
		seconds = h.cfg.timedSeconds
	}
	seconds = min(seconds, maxTimedSeconds)

	h.stopTimer()
	h.resetScore()
	h.newRound()

	h.timerGen++
	gen := h.timerGen
	stop := make(chan struct{})
	h.timerStop = stop
	h.remaining = seconds

	logf(h.cfg, "GAMES: Timed game of %ds started in %s", seconds, h.id)

	h.broadcast(TimerMessage{Type: "timer", Remaining: seconds, Display: timerDisplay(seconds)})

	go func() {
		ticker := time.NewTicker(h.tick)
		defer ticker.Stop()

		for remaining := seconds - 1; remaining >= 0; remaining-- {
			select {
			case <-ticker.C:
			case <-stop:
				return
			case <-h.quit:
				return
			}

			select {
			case h.ticks <- timerTick{gen: gen, remaining: remaining}:
			case <-stop:
				return
			case <-h.quit:
				return
			}
		}
	}()
}

func (h *Hub) stopTimer() {
	if h.timerStop != nil {
		close(h.timerStop)
		h.timerStop = nil
	}
	h.remaining = -1
}

func (h *Hub) handleTick(t timerTick) {
	if t.gen != h.timerGen || h.timerStop == nil {
		return
	}

	h.remaining = t.remaining
	h.broadcast(TimerMessage{Type: "timer", Remaining: t.remaining, Display: timerDisplay(t.remaining)})

	if t.remaining > 0 {
		return
	}

	final := h.score()
	h.stopTimer()

	logf(h.cfg, "GAMES: Timed game in %s ended with %s", h.id, final.Text)

	h.broadcast(GameOverMessage{Type: "game_over", Score: final})

	h.resetScore()
	h.newRound()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated game.
type GameManager struct {
	cfg     *Config
	catalog *trivia.Catalog

	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	tick        time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

func newGameManager(cfg *Config, catalog *trivia.Catalog) *GameManager {
	gm := &GameManager{
		cfg:         cfg,
		catalog:     catalog,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		tick:        time.Second,
		done:        make(chan struct{}),
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gm.cfg, gm.catalog, gameID, gm.tick)
	gm.hubs[gameID] = hub
	go hub.run()
	return hub
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return len(gm.hubs)
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		case <-gm.done:
			return
		}
	}
}

func (gm *GameManager) reap(cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(gm.hubs, id)
			hub.close()
		}
	}
}

// Close ends every game and stops the reaper.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() {
		close(gm.done)
	})

	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.close()
	}
}

func validGameID(id string) bool {
	if id == "" || len(id) > maxGameIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errorf("upgrade error from %s: %v", realIP(r), err)
			return
		}

		// The server's read and write timeouts carry over to hijacked
		// connections; websocket traffic manages its own deadlines.
		_ = conn.SetReadDeadline(time.Time{})
		conn.SetReadLimit(maxMessageSize)

		client := &Client{
			id:   uuid.NewString(),
			conn: conn,
			send: make(chan any, 16),
		}

		hub := gm.getHub(gameID)
		if !hub.join(client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.leave(c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "filters", "answer", "next", "reset", "start_timed":
			h.submit(clientAction{
				client: c,
				msg:    msg,
			})
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(scheme+"://"+r.Host+path, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s for %s", path, gameID, realIP(r))
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerTriviaGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerTriviaGame(cfg *Config, path string, gm *GameManager, mux *httprouter.Router, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", serveAsset(cfg, "index.html", errs))

	mux.GET(cfg.prefix+"/assets/play/app.css", serveAsset(cfg, "app.css", errs))
	mux.GET(cfg.prefix+"/assets/play/app.js", serveAsset(cfg, "app.js", errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))
}
