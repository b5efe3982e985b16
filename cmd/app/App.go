package app

import (
	"context"
	"sync"
	"time"

	"socketBoard/configs"
	"socketBoard/internal/handlers"
	"socketBoard/internal/hub"
	"socketBoard/internal/repositories"
	"socketBoard/internal/servers/database"
	"socketBoard/internal/servers/http"
	"socketBoard/internal/services"

	"github.com/redis/go-redis/v9"
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
	app.configs = configs.GetConfig()
	app.initializeRedis()

	db := database.GetDB(app.configs)
	authRepo := repositories.NewAuthenticationRepository(db)
	authService := services.NewAuthenticationService(authRepo, app.configs)
	whiteboardRepo := repositories.NewWhiteboardRepository(db)
	whiteboardService := services.NewWhiteboardService(whiteboardRepo)

	boardHub := hub.NewHub(
		whiteboardRepo,
		hub.NewRedisPublisher(app.ctx, app.redis),
		hub.WithCheckpoint(
			app.configs.Viper.GetInt("whiteboard.checkpoint_events"),
			time.Duration(app.configs.Viper.GetInt("whiteboard.checkpoint_seconds"))*time.Second,
		),
	)
	go boardHub.HandleRedisMessages(app.ctx, app.redis)

	restHandler := handlers.NewRestHandler(
		authService,
		whiteboardService,
		boardHub,
	)
	socketBoardHandler := handlers.NewSocketBoardHandler(boardHub)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		boardHub,
		restHandler,
		socketBoardHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})
}
