// Package claim reassigns anonymous links to an authenticated owner in bulk.
package claim

import (
	"context"

	"goshortlink/repository"
	"goshortlink/shortkey"

	"go.uber.org/zap"
)

type Engine struct {
	db  repository.Repository
	log *zap.Logger
}

func New(db repository.Repository, logger *zap.Logger) *Engine {
	return &Engine{db: db, log: logger}
}

// Claim transfers ownership of every candidate key that still has no owner
// to ownerID and returns how many links changed hands.
//
// Candidates are normalized, invalid ones dropped silently, duplicates
// collapsed. Callers may always pass a superset: keys already owned (by
// anyone, including ownerID itself) match zero rows in the store's
// conditional update, so re-claiming is a safe no-op.
func (e *Engine) Claim(ctx context.Context, candidates []string, ownerID string) (int64, error) {
	seen := make(map[string]struct{}, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, raw := range candidates {
		key := shortkey.Normalize(raw)
		if shortkey.Validate(key) != nil {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	updated, err := e.db.ReassignOwnerBulk(ctx, keys, ownerID)
	if err != nil {
		return 0, err
	}
	e.log.Debug("claimed links",
		zap.Int("candidates", len(candidates)),
		zap.Int("eligible", len(keys)),
		zap.Int64("updated", updated))
	return updated, nil
}
