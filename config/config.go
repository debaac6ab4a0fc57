package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Env struct {
	AppPort         int    `envconfig:"APP_PORT"     default:"8080"`
	DBHost          string `envconfig:"DB_HOST"      default:"localhost"`
	DBPort          int    `envconfig:"DB_PORT"      default:"5432"`
	DBName          string `envconfig:"DB_NAME"      default:"shortlink"`
	DBUser          string `envconfig:"DB_USER"      default:"shortlink"`
	DBPassword      string `envconfig:"DB_PASSWORD"  default:"shortlink"`
	SessionStore    string `envconfig:"SESSION_STORE" default:"redis"` // redis or inmemory
	SessionHost     string `envconfig:"SESSION_HOST" default:"localhost"`
	SessionPort     int    `envconfig:"SESSION_PORT" default:"6379"`
	RedirectOrigin  string `envconfig:"REDIRECT_ORIGIN"  default:"http://localhost:8080"`
	CleanerSchedule string `envconfig:"CLEANER_SCHEDULE" default:"@hourly"`
}

func Process() (env Env, err error) {
	err = envconfig.Process("", &env)
	return
}
