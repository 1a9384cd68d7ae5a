package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gwebsocket "github.com/gorilla/websocket"
	"github.com/tkahng/bowling"
	"github.com/tkahng/bowling/config"
	"github.com/tkahng/bowling/web"
	"github.com/tkahng/bowling/websocket"
)

// GameServer exposes the lane broker over HTTP and WebSocket.
type GameServer struct {
	broker   *bowling.Broker
	hub      *websocket.Hub
	upgrader gwebsocket.Upgrader
	router   chi.Router
	logger   *slog.Logger
	cfg      config.HTTPConfig

	ctx    context.Context
	cancel context.CancelFunc
}

// NewGameServer creates a new game server
func NewGameServer(cfg config.HTTPConfig, broker *bowling.Broker, logger *slog.Logger) *GameServer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	gs := &GameServer{
		broker:   broker,
		hub:      websocket.NewHub(),
		upgrader: websocket.DefaultUpgrader(cfg.AllowedOrigins),
		logger:   logger,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
	}
	gs.setupRoutes()
	broker.OnChange(gs.publish)
	return gs
}

func (gs *GameServer) Handler() http.Handler {
	return gs.router
}

// Start starts the broker and the websocket hub
func (gs *GameServer) Start() {
	gs.broker.Start()
	go gs.hub.Run(gs.ctx)
}

// Stop disconnects every socket and stops the broker
func (gs *GameServer) Stop() {
	gs.cancel()
	gs.broker.Stop()
}

func (gs *GameServer) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(gs.logger))
	r.Use(Cors(gs.cfg.AllowedOrigins))

	r.Get("/", web.ServeHTML)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", gs.handleHealth)
		r.Get("/stats", gs.handleStats)
		r.Route("/games", func(r chi.Router) {
			r.Get("/", gs.handleListGames)
			r.Post("/", gs.handleCreateGame)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(gs.Session)
				r.Get("/", gs.handleGetGame)
				r.Delete("/", gs.handleDeleteGame)
				r.Post("/rolls", gs.handleRoll)
				r.Post("/restart", gs.handleRestart)
				r.Get("/scoreboard", gs.handleScoreboard)
				r.Get("/ws", gs.handleWebSocket)
			})
		})
	})
	gs.router = r
}

func (gs *GameServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	session, err := gs.broker.CreateGame(req.Players)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (gs *GameServer) handleListGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gs.broker.ListGames())
}

func (gs *GameServer) handleGetGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, getSessionFromContext(r.Context()).Snapshot())
}

func (gs *GameServer) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if err := gs.broker.RemoveGame(session.ID); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	gs.hub.CloseLane(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (gs *GameServer) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Pins == nil {
		writeError(w, http.StatusBadRequest, errors.New("pins is required"))
		return
	}
	session := getSessionFromContext(r.Context())
	snap, err := session.Roll(*req.Pins)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (gs *GameServer) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	session := getSessionFromContext(r.Context())
	snap, err := session.Restart(req.Players)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (gs *GameServer) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	snap := getSessionFromContext(r.Context()).Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, bowling.RenderScoreboard(snap.Players))
}

// handleWebSocket attaches a client to the lane's live scoreboard
func (gs *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	websocket.ServeWS(
		gs.upgrader,
		websocket.DefaultSetupConn,
		websocket.NewClientFactory(gs.logger),
		func(ctx context.Context, cancel context.CancelFunc, c websocket.Client) {
			gs.hub.Join(session.ID, cancel, c)
			gs.logger.Info("spectator joined", slog.String("game_id", session.ID))
			gs.sendState(c, session.Snapshot())
		},
		func(c websocket.Client) {
			gs.hub.Leave(c)
		},
		gs.cfg.PingInterval,
		[]websocket.MessageHandler{
			func(c websocket.Client, b []byte) {
				gs.processMessage(session, c, b)
			},
		},
	)(w, r)
}

// processMessage applies a client message to the lane
func (gs *GameServer) processMessage(session *bowling.Session, c websocket.Client, b []byte) {
	msg, err := decodeMessage(b)
	if err != nil {
		gs.sendError(c, "invalid message")
		return
	}

	switch msg.Type {
	case MessageTypeRoll:
		var data RollMessageData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.Pins == nil {
			gs.sendError(c, "invalid roll data")
			return
		}
		if _, err := session.Roll(*data.Pins); err != nil {
			gs.sendError(c, err.Error())
		}
	default:
		gs.sendError(c, "unknown message type: "+string(msg.Type))
	}
}

// publish pushes the new state to every client in the lane. The broker calls
// it with the session locked, so a lane's states go out in roll order.
func (gs *GameServer) publish(snap bowling.Snapshot) {
	t := MessageTypeGameState
	if snap.GameOver {
		t = MessageTypeGameEnd
	}
	b, err := encodeMessage(t, snap)
	if err != nil {
		gs.logger.Error("encode state", slog.Any("error", err))
		return
	}
	if err := gs.hub.Broadcast(snap.ID, b); err != nil {
		gs.logger.Warn("broadcast state", slog.String("game_id", snap.ID), slog.Any("error", err))
	}
}

func (gs *GameServer) sendState(c websocket.Client, snap bowling.Snapshot) {
	t := MessageTypeGameState
	if snap.GameOver {
		t = MessageTypeGameEnd
	}
	gs.send(c, t, snap)
}

func (gs *GameServer) sendError(c websocket.Client, msg string) {
	gs.send(c, MessageTypeError, msg)
}

func (gs *GameServer) send(c websocket.Client, t MessageType, data any) {
	b, err := encodeMessage(t, data)
	if err != nil {
		gs.logger.Error("encode message", slog.Any("error", err))
		return
	}
	if _, err := c.Write(b); err != nil {
		gs.logger.Warn("send message", slog.Any("error", err))
	}
}

func (gs *GameServer) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"activeGames":    gs.broker.ActiveGameCount(),
		"availableSlots": gs.broker.AvailableSlots(),
		"liveLanes":      len(gs.hub.Lanes()),
		"timestamp":      time.Now().Unix(),
	})
}

var startTime = time.Now()

func (gs *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(startTime).String(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bowling.ErrInvalidRoster), errors.Is(err, bowling.ErrIllegalRoll):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bowling.ErrRollAfterGameOver), errors.Is(err, bowling.ErrGameNotStarted):
		return http.StatusConflict
	case errors.Is(err, bowling.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, bowling.ErrAtCapacity), errors.Is(err, bowling.ErrBrokerStopped):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// nolint:errcheck
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
