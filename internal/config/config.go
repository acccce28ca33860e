package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr  string
	RedisAddr string // empty means in-memory store
	LogLevel  string

	RoomTTL            time.Duration
	MatchWait          time.Duration
	FinishedRoomLinger time.Duration
	SweepInterval      time.Duration
	TxnAttempts        int
}

func Load() Config {
	_ = godotenv.Load()

	c := Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		RoomTTL:            getenvDur("ROOM_TTL", 2*time.Hour),
		MatchWait:          getenvDur("MATCH_WAIT", 30*time.Second),
		FinishedRoomLinger: getenvDur("FINISHED_ROOM_LINGER", 30*time.Second),
		SweepInterval:      getenvDur("SWEEP_INTERVAL", 10*time.Minute),
		TxnAttempts:        getenvInt("TXN_ATTEMPTS", 5),
	}
	log.WithFields(log.Fields{"addr": c.HTTPAddr, "redis": c.RedisAddr != ""}).
		Info("config loaded")
	return c
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
