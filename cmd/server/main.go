package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	httpapi "bingo-arena/internal/api/http"
	"bingo-arena/internal/api/ws"
	"bingo-arena/internal/config"
	"bingo-arena/internal/match"
	"bingo-arena/internal/room"
	"bingo-arena/internal/session"
	"bingo-arena/internal/store"

	// swagger packages
	_ "bingo-arena/docs"
)

// @title Bingo Arena API
// @version 1.0
// @description Room and turn coordination backend for multiplayer bingo (Go + Gin)
// @contact.name Backend Team
// @BasePath /
func main() {
	cfg := config.Load()

	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	var st store.Store
	if cfg.RedisAddr != "" {
		rs := store.NewRedisStore(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rs.Ping(ctx); err != nil {
			cancel()
			log.WithError(err).Fatal("redis unreachable")
		}
		cancel()
		st = rs
		log.WithField("addr", cfg.RedisAddr).Info("using redis store")
	} else {
		st = store.NewMemoryStore()
		log.Info("using in-memory store")
	}

	rm := room.NewManager(st, cfg)
	mm := match.NewMatchmaker(st, rm, cfg)
	hub := ws.NewHub(rm, func(roomID, playerID string) *session.Session {
		return session.New(st, roomID, playerID)
	})

	r := httpapi.NewRouter(rm, mm, st, hub)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// The registry only answers expiry queries; the sweep loop lives here.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := rm.SweepExpired(ctx, time.Now()); err != nil {
				log.WithError(err).Warn("expiry sweep")
			}
			cancel()
		}
	}()

	log.WithField("addr", cfg.HTTPAddr).Info("listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
