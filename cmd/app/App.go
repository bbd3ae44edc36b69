package app

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"presenceHub/configs"
	"presenceHub/internal/handlers"
	"presenceHub/internal/hub"
	"presenceHub/internal/repositories"
	"presenceHub/internal/servers/database"
	"presenceHub/internal/servers/http"
	"presenceHub/internal/services"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	db := database.GetDB(app.configs)
	chatRepo := repositories.NewChatRepository(db)
	userRepo := repositories.NewUserRepository(db)
	chatService := services.NewChatService(chatRepo)
	authService := services.NewAuthenticationService(app.configs)

	socketHub := hub.NewHub()
	socketHub.SetStatusRecorder(userRepo)
	socketHub.AttachRelay(hub.NewRelay(app.ctx, app.redis))

	authTimeout := time.Duration(app.configs.Viper.GetInt("jwt.verification_timeout")) * time.Second
	socketHandler := handlers.NewSocketHandler(app.ctx, socketHub, authService, chatService, authTimeout)
	restHandler := handlers.NewRestHandler(authService, socketHub)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		socketHub,
		restHandler,
		socketHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}
