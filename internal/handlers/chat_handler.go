package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/justsurfingit/jobseeker-portal/internal/auth"
	"github.com/justsurfingit/jobseeker-portal/internal/dtos"
	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/services"
)

const (
	readDeadline = 90 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	readLimit    = int64(4 << 10)
)

// ChatHandler serves the community chat over REST and a websocket feed.
type ChatHandler struct {
	Chat     *services.ChatService
	Mentions *services.MentionDispatcher
	upgrader websocket.Upgrader
}

func NewChatHandler(chat *services.ChatService, mentions *services.MentionDispatcher) *ChatHandler {
	return &ChatHandler{
		Chat:     chat,
		Mentions: mentions,
		upgrader: websocket.Upgrader{
			// browsers on other origins are already filtered by CORS
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Messages is GET /chat/messages: the visible window, oldest first.
func (h *ChatHandler) Messages(c *gin.Context) {
	msgs, err := h.Chat.Window(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Post is POST /chat/messages. Requires a signed-in session.
func (h *ChatHandler) Post(c *gin.Context) {
	var req dtos.ChatPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := auth.SessionFrom(c).User()
	msg, err := h.Chat.Send(c.Request.Context(), user.ID, user.Name, req.Text, req.Type, req.JobDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Mentions != nil {
		h.Mentions.AfterSend(*msg)
	}
	c.JSON(http.StatusCreated, msg)
}

// Stream is GET /chat/ws. Every pushed window is written as one JSON array.
func (h *ChatHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// only the newest window matters; a slow socket skips intermediate ones
	windows := make(chan []models.ChatMessage, 1)
	unsubscribe := h.Chat.Subscribe(func(msgs []models.ChatMessage) {
		select {
		case windows <- msgs:
		default:
			select {
			case <-windows:
			default:
			}
			select {
			case windows <- msgs:
			default:
			}
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case msgs := <-windows:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msgs); err != nil {
				log.Printf("⚠️ Chat push failed: %v", err)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *ChatHandler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ Chat socket closed: %v", err)
			}
			return
		}
	}
}
