package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/direcciones/card-services/internal/socketsvc/broker"
	"github.com/direcciones/card-services/internal/socketsvc/ws"
)

type Handler struct {
	upgrader  websocket.Upgrader
	ws        *ws.Ws
	broker    *broker.Broker
	tokenAuth *jwtauth.JWTAuth
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func NewHandler(s *ws.Ws, b *broker.Broker) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ws:     s,
		broker: b,
	}
	return h
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)
}

// HandleWebSocket upgrades an authenticated client and registers it in
// the hub. The browser cannot set headers on a ws handshake, so the
// session token rides in the query string or the jwt cookie.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}

	if _, err := jwtauth.VerifyToken(h.tokenAuth, tokenString); err != nil {
		log.Warnf("rejected ws connection: %v", err)
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		http.Error(w, "Failed to upgrade to WebSocket", http.StatusInternalServerError)
		return
	}

	socketId := uuid.New().String()
	h.ws.StoreConnection(socketId, conn)

	log.Infof("New WebSocket connection established: %s", socketId)

	// ask the card service for a fresh snapshot so the new client
	// converges without waiting for the next mutation
	h.broker.RequestRefresh(socketId)

	go h.handleConnection(conn, socketId)
}

// handleConnection drains the read side until the peer goes away.
// Clients only listen; anything they send is discarded.
func (h *Handler) handleConnection(conn *websocket.Conn, socketId string) {
	defer h.ws.RemoveConnection(socketId)

	conn.SetReadLimit(1024)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Infof("WebSocket connection closed: %s %v", socketId, err)
			return
		}
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "socket service is running at port " + os.Getenv("SOCKET_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	json.NewEncoder(w).Encode(rsp)
}

func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if cookie, err := r.Cookie("jwt"); err == nil {
		return cookie.Value
	}
	return ""
}
