package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"pinochle-game/config"
	"pinochle-game/internal/bot"
	"pinochle-game/internal/database"
	"pinochle-game/internal/logger"
	"pinochle-game/internal/server"
)

func main() {
	configPath := pflag.StringP("config", "c", "config/config.yaml", "path to the yaml config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New("info").Fatal("load config", "err", err)
	}
	log := logger.New(cfg.Log.Level)
	log.Info("starting pinochle server", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, database.Options{
		Driver:        cfg.Store.Driver,
		DSN:           cfg.Store.DSN,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Fatal("open store", "err", err)
	}
	defer store.Close()

	pilot := &bot.Autopilot{Planner: &bot.Planner{
		Trials:  cfg.Bot.Trials,
		Workers: cfg.Bot.Workers,
		Logger:  log,
	}}

	hub := server.NewHub(log)
	svc := server.NewService(store, pilot, hub, log)
	hub.Bind(svc)
	go hub.Run()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.NewRouter(svc, hub, log),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", "err", err)
		}
	}()
	log.Info("listening", "addr", cfg.Server.Addr)

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
