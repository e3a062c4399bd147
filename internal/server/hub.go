package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"pinochle-game/internal/game"
	"pinochle-game/internal/protocol"
	"pinochle-game/internal/shared"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// GameService is what the hub needs from the game service.
type GameService interface {
	State(ctx context.Context, id string) (protocol.StatePayload, error)
	Act(ctx context.Context, id string, seat shared.Seat, action game.Action) (game.Outcome, error)
}

// Hub manages websocket connections and which games each one watches.
type Hub struct {
	clients        map[*Client]bool
	subscribers    map[string]map[*Client]bool // game id -> watching clients
	watching       map[*Client]map[string]bool // client -> watched game ids
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	mu             sync.RWMutex
	games          GameService
	logger         *log.Logger
}

// NewHub creates a new Hub instance.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		subscribers:    make(map[string]map[*Client]bool),
		watching:       make(map[*Client]map[string]bool),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		logger:         logger,
	}
}

// Bind sets the service websocket requests are forwarded to. Call it before Run.
func (h *Hub) Bind(games GameService) {
	h.games = games
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("client connected", "client", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				for id := range h.watching[client] {
					h.removeSubscriber(id, client)
				}
				delete(h.watching, client)
				close(client.send)
				h.logger.Info("client disconnected", "client", client.ID)
			}
			h.mu.Unlock()

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// removeSubscriber must be called with h.mu held.
func (h *Hub) removeSubscriber(id string, client *Client) {
	subs := h.subscribers[id]
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscribers, id)
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeSubscribe:
		// State waits on the game lock, which a bot chain may hold
		go h.handleSubscribe(client, msg)
	case protocol.TypeUnsubscribe:
		h.handleUnsubscribe(client, msg)
	case protocol.TypeAct:
		go h.handleAct(client, msg)
	case protocol.TypePing:
		pong, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.sendToClient(client, pong)
	default:
		h.logger.Warn("unknown message type", "client", client.ID, "type", msg.Type)
		h.sendError(client, protocol.ErrorPayload{Message: "unknown message type " + msg.Type})
	}
}

func (h *Hub) handleSubscribe(client *Client, msg protocol.Message) {
	var payload protocol.SubscribePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.GameID == "" {
		h.sendError(client, protocol.ErrorPayload{Message: "invalid subscribe message"})
		return
	}

	// subscribe before reading state so no broadcast in between is missed
	h.mu.Lock()
	if !h.clients[client] {
		h.mu.Unlock()
		return
	}
	if h.subscribers[payload.GameID] == nil {
		h.subscribers[payload.GameID] = make(map[*Client]bool)
	}
	h.subscribers[payload.GameID][client] = true
	if h.watching[client] == nil {
		h.watching[client] = make(map[string]bool)
	}
	h.watching[client][payload.GameID] = true
	h.mu.Unlock()

	state, err := h.games.State(context.Background(), payload.GameID)
	if err != nil {
		h.mu.Lock()
		h.removeSubscriber(payload.GameID, client)
		delete(h.watching[client], payload.GameID)
		h.mu.Unlock()
		h.sendError(client, protocol.ErrorPayload{GameID: payload.GameID, Message: err.Error()})
		return
	}
	h.logger.Debug("client subscribed", "client", client.ID, "game", payload.GameID)

	data, err := protocol.NewMessage(protocol.TypeState, state)
	if err != nil {
		h.logger.Error("encode state", "game", payload.GameID, "err", err)
		return
	}
	h.sendToClient(client, data)
}

func (h *Hub) handleUnsubscribe(client *Client, msg protocol.Message) {
	var payload protocol.SubscribePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.sendError(client, protocol.ErrorPayload{Message: "invalid unsubscribe message"})
		return
	}
	h.mu.Lock()
	h.removeSubscriber(payload.GameID, client)
	delete(h.watching[client], payload.GameID)
	h.mu.Unlock()
}

func (h *Hub) handleAct(client *Client, msg protocol.Message) {
	var payload protocol.ActPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.sendError(client, protocol.ErrorPayload{Message: "invalid act message"})
		return
	}
	action, err := game.UnmarshalAction(payload.Action)
	if err != nil {
		h.sendError(client, protocol.ErrorPayload{GameID: payload.GameID, Message: err.Error()})
		return
	}
	// success is visible to the client as the state broadcast
	if _, err := h.games.Act(context.Background(), payload.GameID, payload.Seat, action); err != nil {
		h.sendError(client, protocol.ErrorPayload{
			GameID:  payload.GameID,
			Kind:    game.ErrorKind(err),
			Message: err.Error(),
		})
	}
}

// Publish sends message to every client watching the game.
func (h *Hub) Publish(gameID string, message []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.subscribers[gameID]))
	for c := range h.subscribers[gameID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.sendToClient(c, message)
	}
}

// sendToClient never blocks. A client whose buffer is full is dropped.
func (h *Hub) sendToClient(client *Client, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- message:
	default:
		h.logger.Warn("client send buffer full, disconnecting", "client", client.ID)
		go func() { h.unregister <- client }()
	}
}

func (h *Hub) sendError(client *Client, payload protocol.ErrorPayload) {
	data, err := protocol.NewMessage(protocol.TypeError, payload)
	if err != nil {
		h.logger.Error("encode error message", "client", client.ID, "err", err)
		return
	}
	h.sendToClient(client, data)
}
