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

	"github.com/gin-gonic/gin"

	"presenceHub/configs"
	"presenceHub/internal/handlers"
	"presenceHub/internal/hub"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx           context.Context
	config        *configs.Config
	router        *gin.Engine
	hub           *hub.Hub
	restHandler   *handlers.RestHandler
	socketHandler *handlers.SocketHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	h *hub.Hub,
	restHandler *handlers.RestHandler,
	socketHandler *handlers.SocketHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:           ctx,
			config:        config,
			hub:           h,
			restHandler:   restHandler,
			socketHandler: socketHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRoutes()
	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
}

func (hs *HttpServer) setupRoutes() {
	hs.router.GET("/healthz", hs.restHandler.Healthz)
	hs.router.GET("/users/online", hs.restHandler.MustAuthenticateMiddleware(), hs.restHandler.OnlineUsers)
	hs.router.GET("/ws", hs.socketHandler.HandleSocketRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := fmt.Sprintf(":%v", hs.config.Viper.GetInt("server.port"))
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %v", addr)
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

	hs.hub.Shutdown()

	log.Println("Server exiting")
}
