package events

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/crud-games/backend/internal/errs"
	eventsService "github.com/zhouzirui/crud-games/backend/internal/service/events"
	"github.com/zhouzirui/crud-games/backend/pkg/utils"
)

const (
	// 向对端写入一条消息的超时时间。
	writeWait = 10 * time.Second

	// 等待对端下一条 pong 的超时时间。
	pongWait = 60 * time.Second

	// 发送 ping 的周期，必须小于 pongWait。
	pingPeriod = (pongWait * 9) / 10

	// 事件流是单向的，客户端只会发送控制帧。
	maxMessageSize = 512
)

// keepAlivePeriod SSE 保活注释的发送间隔，避免代理断开连接。
var keepAlivePeriod = 15 * time.Second

// Handler 通过 websocket 和 SSE 推送 game 变更事件。
type Handler struct {
	hub      *eventsService.Hub
	upgrader websocket.Upgrader
}

// New 创建事件流处理器
func New(hub *eventsService.Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册事件流路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/Games/events", h.handleWebSocket)
	r.Get("/Games/stream", h.handleStream)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if !websocket.IsWebSocketUpgrade(r) {
		utils.RespondError(w, errs.NewBadRequestError("websocket upgrade required"))
		return
	}

	// 在握手完成前订阅，客户端看到升级成功后发布的事件不会丢失。
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger.Info().Msg("feed subscriber connected")
	defer func() {
		logger.Info().Msg("feed subscriber disconnected")
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go readLoop(conn, cancel, logger)
	writeLoop(ctx, conn, sub, logger)
}

// readLoop 持续读取客户端帧，以便处理 pong 与关闭帧。
func readLoop(conn *websocket.Conn, cancel context.CancelFunc, logger *zerolog.Logger) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, sub *eventsService.Subscription, logger *zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub 已停止或已移除该订阅者。
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug().Err(err).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, errs.NewInternalServerError("streaming unsupported"))
		return
	}

	logger := zerolog.Ctx(r.Context())
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := utils.SendSSEComment(w, flusher, "connected"); err != nil {
		return
	}

	ticker := time.NewTicker(keepAlivePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, ev.Type, ev); err != nil {
				logger.Debug().Err(err).Msg("sse write failed")
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "ping"); err != nil {
				return
			}
		}
	}
}
