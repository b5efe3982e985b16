package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"socketBoard/configs"
	"socketBoard/internal/handlers"
	"socketBoard/internal/hub"

	"github.com/gin-gonic/gin"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx      context.Context
	config   *configs.Config
	router   *gin.Engine
	boardHub *hub.Hub

	restHandler        *handlers.RestHandler
	socketBoardHandler *handlers.SocketBoardHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	boardHub *hub.Hub,
	restHandler *handlers.RestHandler,
	socketBoardHandler *handlers.SocketBoardHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:                ctx,
			config:             config,
			boardHub:           boardHub,
			restHandler:        restHandler,
			socketBoardHandler: socketBoardHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()

	server := hs.startServer()

	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.POST("/register", hs.restHandler.Register)
	hs.router.POST("/login", hs.restHandler.Login)

	authorized := hs.router.Group("/", handlers.MustAuthenticateMiddleware())
	authorized.GET("/profile", hs.restHandler.GetProfile)
	authorized.POST("/whiteboards", hs.restHandler.CreateWhiteboard)
	authorized.GET("/whiteboards", hs.restHandler.GetUserWhiteboards)
	authorized.GET("/whiteboards/:id", hs.restHandler.GetWhiteboard)
	authorized.POST("/whiteboards/:id/share", hs.restHandler.ShareWhiteboard)
	authorized.POST("/whiteboards/join", hs.restHandler.JoinWhiteboard)
	authorized.DELETE("/whiteboards/:id", hs.restHandler.DeleteWhiteboard)
	authorized.PATCH("/whiteboards/:id/role", hs.restHandler.ChangeRole)
	authorized.DELETE("/whiteboards/:id/participants/:userId", hs.restHandler.RemoveParticipant)
	authorized.DELETE("/whiteboards/:id/invitations/:code", hs.restHandler.RevokeInvitation)
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws/board", hs.socketBoardHandler.HandleSocketBoardRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close all WebSocket connections
	hs.boardHub.Shutdown()

	log.Println("Server exiting")
}
