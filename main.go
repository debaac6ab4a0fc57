package main

import (
	"fmt"
	"log"
	"time"

	"goshortlink/config"
	"goshortlink/identity"
	"goshortlink/job"
	"goshortlink/logger"
	"goshortlink/repository"
	"goshortlink/server"
	"goshortlink/sessions"
)

const defaultSessionTTL = 24 * time.Hour

func main() {
	zaplogger, err := logger.New()
	if err != nil {
		log.Fatalf("failed to initialize logger: %s", err)
	}

	env, err := config.Process()
	if err != nil {
		log.Fatalf("failed to process env: %s", err)
	}

	db, err := repository.NewPostgresRepo(env.DBPort, env.DBHost, env.DBUser, env.DBName, env.DBPassword)
	if err != nil {
		log.Fatalf("failed to connect db: %s", err)
	}

	var sessionStore sessions.Engine
	switch env.SessionStore {
	case "inmemory":
		sessionStore = sessions.NewInMemory(defaultSessionTTL)
	default:
		sessionStore = sessions.NewRedis(env.SessionHost, env.SessionPort)
	}
	provider := identity.NewTokenProvider(sessionStore, zaplogger)

	cleaner := job.NewCleaner(db, zaplogger)
	if err := cleaner.Start(env.CleanerSchedule); err != nil {
		log.Fatalf("failed to start cleaner: %s", err)
	}
	defer cleaner.Stop()

	r := server.NewRouter(db, provider, zaplogger, env.RedirectOrigin)
	if err := r.Run(fmt.Sprintf(":%d", env.AppPort)); err != nil {
		log.Fatalf("server stopped: %s", err)
	}
}
