package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"lzsim/model"
)

// REST + websocket 服务：三个调度资源和 /ws 指标推送

type Server struct {
	addr     string
	store    *Store
	hub      *Hub
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

func NewServer(addr string, store *Store, hub *Hub) *Server {
	s := &Server{
		addr:  addr,
		store: store,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	api.GET("/heatschedule", s.listHeats)
	api.POST("/heatschedule", s.replaceHeats)
	api.GET("/cutschedule", s.listProductsFor(ResourceCutSchedule))
	api.POST("/cutschedule", s.replaceProductsFor(ResourceCutSchedule))
	api.GET("/products", s.listProductsFor(ResourceProducts))
	api.POST("/products", s.replaceProductsFor(ResourceProducts))

	engine.GET("/ws", s.serveWs)
	s.engine = engine
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.engine
}

func (s *Server) Serve() error {
	log.WithFields(log.Fields{"addr": s.addr}).Info("服务启动")
	return s.engine.Run(s.addr)
}

func (s *Server) listHeats(c *gin.Context) {
	heats, err := s.store.ListHeats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, heats)
}

func (s *Server) replaceHeats(c *gin.Context) {
	var heats []model.Heat
	if err := c.ShouldBindJSON(&heats); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.ReplaceHeats(heats); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(heats)})
}

func (s *Server) listProductsFor(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := s.store.ListProducts(resource)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func (s *Server) replaceProductsFor(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []model.Product
		if err := c.ShouldBindJSON(&products); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.store.ReplaceProducts(resource, products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(products)})
	}
}

// websocket 升级后客户端只收不发，读循环用于感知断连
func (s *Server) serveWs(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("websocket 升级失败")
		return
	}
	s.hub.Add(conn)
	go func() {
		defer s.hub.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
