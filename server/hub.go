package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Hub 维护活跃的 websocket 客户端并把指标帧广播出去
// 单个客户端写失败只摘除该客户端

type Frame struct {
	Type    string                 `json:"type"`
	Area    string                 `json:"area"`
	Metrics map[string]interface{} `json:"metrics"`
	Ts      int64                  `json:"ts"`
}

type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	log.WithFields(log.Fields{"clients": len(h.clients)}).Info("websocket 客户端接入")
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// telemetry.Sink 实现
func (h *Hub) Publish(area string, metrics map[string]interface{}) error {
	frame := Frame{
		Type:    "metrics",
		Area:    area,
		Metrics: metrics,
		Ts:      time.Now().Unix(),
	}
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		if err := c.WriteJSON(&frame); err != nil {
			log.WithFields(log.Fields{"err": err}).Warn("客户端写失败，摘除")
			h.Remove(c)
		}
	}
	return nil
}
