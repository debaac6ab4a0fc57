// Package job hosts background maintenance work. Nothing here runs on the
// request path: expiry is evaluated lazily at read time, and this cleaner
// only bounds storage growth by purging records that are already invisible.
package job

import (
	"context"
	"time"

	"goshortlink/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const cleanerTimeout = 30 * time.Second

type Cleaner struct {
	db   repository.Repository
	log  *zap.Logger
	cron *cron.Cron
}

func NewCleaner(db repository.Repository, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		db:   db,
		log:  logger,
		cron: cron.New(),
	}
}

// Start schedules the purge with a cron spec (e.g. "@hourly") and returns
// immediately. Call Stop to shut the schedule down.
func (c *Cleaner) Start(schedule string) error {
	if _, err := c.cron.AddFunc(schedule, c.Run); err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

func (c *Cleaner) Stop() {
	c.cron.Stop()
}

// Run purges expired links once. Exported so it can be triggered outside
// the schedule (tests, one-off maintenance).
func (c *Cleaner) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanerTimeout)
	defer cancel()

	purged, err := c.db.DeleteExpired(ctx, time.Now())
	if err != nil {
		c.log.Error("failed to purge expired links", zap.Error(err))
		return
	}
	if purged > 0 {
		c.log.Info("purged expired links", zap.Int64("count", purged))
	}
}
