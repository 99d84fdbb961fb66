package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageType WebSocket 消息类型
const (
	MsgTypeInit             = "init"              // 初始化数据（会话概览）
	MsgTypeCellsUpdated     = "cells_updated"     // 电芯变化
	MsgTypeTasksUpdated     = "tasks_updated"     // 任务变化
	MsgTypeSessionReset     = "session_reset"     // 会话清空
	MsgTypeSessionSubmitted = "session_submitted" // 会话提交
	MsgTypeSessionClosed    = "session_closed"    // 会话关闭
	MsgTypeError            = "error"             // 错误消息
)

// Message WebSocket 消息结构
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client WebSocket 客户端，订阅单个会话
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

type envelope struct {
	sessionID string
	data      []byte
	closing   bool // 投递后断开该会话的所有客户端
}

// Hub WebSocket 连接管理中心
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	// 初始数据提供者回调，返回 nil 表示会话不存在
	getInitData func(sessionID string) interface{}
}

// NewHub 创建 Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetInitDataProvider 设置初始数据提供者
func (h *Hub) SetInitDataProvider(provider func(sessionID string) interface{}) {
	h.getInitData = provider
}

// Run 运行 Hub，ctx 取消后关闭所有客户端
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client connected",
				zap.String("session_id", client.sessionID),
				zap.Int("total_clients", total))

			// 发送初始数据，会话已不存在时断开
			if !h.sendInitData(client) {
				h.mu.Lock()
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					close(client.send)
				}
				h.mu.Unlock()
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("WebSocket client disconnected",
				zap.String("session_id", client.sessionID),
				zap.Int("total_clients", total))

		case env := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.sessionID != env.sessionID {
					continue
				}
				delivered := false
				select {
				case client.send <- env.data:
					delivered = true
				default:
					// 慢消费者，关闭连接
				}
				if !delivered || env.closing {
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
			if env.closing {
				h.logger.Info("WebSocket session clients dropped", zap.String("session_id", env.sessionID))
			}
		}
	}
}

// sendInitData 发送初始数据给新连接的客户端
// 会话已不存在时发送错误消息并返回 false
func (h *Hub) sendInitData(client *Client) bool {
	if h.getInitData == nil {
		h.logger.Warn("No init data provider set")
		return true
	}

	msg := Message{Type: MsgTypeInit, Data: h.getInitData(client.sessionID)}
	if msg.Data == nil {
		h.logger.Warn("Init data provider returned nil", zap.String("session_id", client.sessionID))
		msg = Message{Type: MsgTypeError, Data: map[string]string{"error": "session not found"}}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal init data", zap.Error(err))
		return true
	}

	select {
	case client.send <- data:
		h.logger.Debug("Sent init data to client", zap.String("type", msg.Type))
	default:
		h.logger.Warn("Failed to send init data, client buffer full")
	}
	return msg.Type == MsgTypeInit
}

// BroadcastToSession 广播结构化消息给订阅该会话的客户端
func (h *Hub) BroadcastToSession(sessionID, msgType string, data interface{}) {
	h.enqueue(sessionID, msgType, data, false)
}

// CloseSession 通知会话已关闭，投递后断开该会话的所有客户端
func (h *Hub) CloseSession(sessionID string) {
	h.enqueue(sessionID, MsgTypeSessionClosed, nil, true)
}

func (h *Hub) enqueue(sessionID, msgType string, data interface{}, closing bool) {
	jsonData, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- envelope{sessionID: sessionID, data: jsonData, closing: closing}:
	default:
		h.logger.Warn("Broadcast queue full, dropping message",
			zap.String("session_id", sessionID),
			zap.String("type", msgType))
	}
}

// ClientCount 获取客户端数量
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient 创建客户端
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

// Register 注册客户端
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		close(c.send)
	}
}

// Unregister 注销客户端
func (c *Client) Unregister() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump 读取消息（保持连接活跃）
func (c *Client) ReadPump() {
	defer func() {
		c.Unregister()
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
		// 不处理客户端消息，仅保持连接
	}
}

// WritePump 发送消息，send 关闭后发送关闭帧
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
