package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru"

	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

const (
	// recentTxIDs is how many acknowledged txIds each connection remembers.
	recentTxIDs = 256
	sendBuffer  = 32
	writeWait   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler serves the game bridge and pushes balance updates to every
// connection of a user.
type WebSocketHandler struct {
	limiter   services.RateLimiter
	logger    *slog.Logger
	hub       *WebSocketHub
	closeOnce sync.Once
}

type WebSocketHub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	logger     *slog.Logger
}

type Client struct {
	UserID  string
	Conn    *websocket.Conn
	session *services.Session
	send    chan models.BridgeReply
	// acknowledged replies by txId, replayed for duplicate submissions
	recent *lru.Cache
}

// Message is a reply addressed to one user's connections.
type Message struct {
	UserID string
	Reply  models.BridgeReply
}

var _ services.Broadcaster = (*WebSocketHandler)(nil)

func NewWebSocketHandler(limiter services.RateLimiter, logger *slog.Logger) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		done:       make(chan struct{}),
		logger:     logger,
	}

	go hub.run()

	return &WebSocketHandler{
		limiter: limiter,
		logger:  logger,
		hub:     hub,
	}
}

// Close stops the hub loop and closes every registered connection. Hijacked
// connections are not closed by http.Server.Shutdown.
func (h *WebSocketHandler) Close() {
	h.closeOnce.Do(func() { close(h.hub.done) })
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	user, err := sess.CurrentUser()
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade to websocket", slog.String("error", err.Error()))
		return
	}

	recent, _ := lru.New(recentTxIDs)
	client := &Client{
		UserID:  user.ID,
		Conn:    conn,
		session: sess,
		send:    make(chan models.BridgeReply, sendBuffer),
		recent:  recent,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}
	go client.writePump()

	defer func() {
		select {
		case h.hub.unregister <- client:
		case <-h.hub.done:
			close(client.send)
		}
		conn.Close()
	}()

	h.sendBalance(client, "")

	for {
		var msg models.BridgeMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket error", slog.String("user_id", client.UserID), slog.String("error", err.Error()))
			}
			break
		}

		h.handleMessage(c.Request.Context(), client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, client *Client, msg *models.BridgeMessage) {
	if err := msg.Validate(); err != nil {
		h.sendError(client, msg, err)
		return
	}

	switch msg.Type {
	case models.BridgePing:
		client.push(models.BridgeReply{Type: models.BridgePong, TxID: msg.TxID})
	case models.BridgeRequestBalance:
		h.sendBalance(client, msg.TxID)
	case models.BridgePlaceBet, models.BridgeReportWin:
		h.handleTransaction(ctx, client, msg)
	}
}

func (h *WebSocketHandler) handleTransaction(ctx context.Context, client *Client, msg *models.BridgeMessage) {
	if msg.TxID != "" {
		if prev, ok := client.recent.Get(msg.TxID); ok {
			client.push(prev.(models.BridgeReply))
			return
		}
	}

	if h.limiter != nil {
		allowed, err := h.limiter.CheckRateLimit(ctx, client.UserID, "bridge", services.DefaultRateLimitBridge, services.DefaultRateLimitWindow)
		if err != nil || !allowed {
			h.sendError(client, msg, errRateLimited)
			return
		}
	}

	result, err := client.session.RecordBridgeTransaction(ctx, msg.GameID, msg.Amount, msg.Currency, msg.TxType())
	if err != nil {
		h.sendError(client, msg, err)
		return
	}

	balance := result.Balance
	reply := models.BridgeReply{
		Type:    models.BridgeTransactionSuccess,
		TxID:    msg.TxID,
		GameID:  msg.GameID,
		Balance: &balance,
	}
	if !result.Success {
		reply.Type = models.BridgeTransactionError
		reply.Error = result.Error
	}
	if msg.TxID != "" {
		client.recent.Add(msg.TxID, reply)
	}
	client.push(reply)
}

var errRateLimited = errors.New("rate limit exceeded")

func (h *WebSocketHandler) sendError(client *Client, msg *models.BridgeMessage, err error) {
	code := toHTTPError(err).code
	if errors.Is(err, errRateLimited) {
		code = CodeRateLimited
	}
	client.push(models.BridgeReply{
		Type:   models.BridgeTransactionError,
		TxID:   msg.TxID,
		GameID: msg.GameID,
		Error:  code,
	})
}

func (h *WebSocketHandler) sendBalance(client *Client, txID string) {
	user, err := client.session.CurrentUser()
	if err != nil {
		h.logger.Warn("failed to load balance for websocket", slog.String("user_id", client.UserID), slog.String("error", err.Error()))
		client.push(models.BridgeReply{Type: models.BridgeTransactionError, TxID: txID, Error: toHTTPError(err).code})
		return
	}
	balance := user.Balances()
	client.push(models.BridgeReply{Type: models.BridgeBalanceUpdate, TxID: txID, Balance: &balance})
}

// BroadcastBalance implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastBalance(userID string, balance models.Balance) {
	msg := &Message{
		UserID: userID,
		Reply:  models.BridgeReply{Type: models.BridgeBalanceUpdate, Balance: &balance},
	}
	select {
	case h.hub.broadcast <- msg:
	default:
		h.logger.Warn("balance broadcast dropped", slog.String("user_id", userID))
	}
}

func (c *Client) push(reply models.BridgeReply) {
	if reply.ServerTS == 0 {
		reply.ServerTS = time.Now().UnixMilli()
	}
	select {
	case c.send <- reply:
	default:
		// Slow reader. Dropping an ack would leave the game out of step with
		// an applied change, so drop the connection instead; the reconnect
		// starts with a fresh BALANCE_UPDATE.
		c.Conn.Close()
	}
}

func (c *Client) writePump() {
	for reply := range c.send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			if hub.clients[client.UserID] == nil {
				hub.clients[client.UserID] = make(map[*Client]struct{})
			}
			hub.clients[client.UserID][client] = struct{}{}
			hub.logger.Debug("client registered", slog.String("user_id", client.UserID))

		case client := <-hub.unregister:
			if conns, ok := hub.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
				}
				if len(conns) == 0 {
					delete(hub.clients, client.UserID)
				}
				hub.logger.Debug("client unregistered", slog.String("user_id", client.UserID))
			}

		case message := <-hub.broadcast:
			for client := range hub.clients[message.UserID] {
				client.push(message.Reply)
			}

		case <-hub.done:
			for _, conns := range hub.clients {
				for client := range conns {
					client.Conn.Close()
				}
			}
			return
		}
	}
}
