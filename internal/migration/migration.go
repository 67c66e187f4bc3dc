// Package migration brings a stored dataset up to date at startup. Every
// step is idempotent, so running it on each boot is safe.
package migration

import (
	"context"
	"fmt"
	"time"

	"haushaltsbuch/internal/auth"
	"haushaltsbuch/internal/logger"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/store"
	"haushaltsbuch/internal/uuid"
)

// Seed describes the user created when the dataset has none. A non-empty
// PasswordHash is stored as is; otherwise Password is hashed.
type Seed struct {
	Username     string
	Password     string
	PasswordHash string
}

// Result reports what a run changed and the resulting dataset size.
type Result struct {
	SchemaUpgraded  bool
	SeededUserID    string
	OrphansAttached int
	Users           int
	Lines           int
}

// Runner applies the startup migrations.
type Runner struct {
	repo   *store.Repository
	hasher *auth.PasswordHasher
	seed   Seed
	now    func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(repo *store.Repository, hasher *auth.PasswordHasher, seed Seed) *Runner {
	return &Runner{repo: repo, hasher: hasher, seed: seed, now: time.Now}
}

// Run executes the schema, seeding and orphan steps in order.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var res Result
	var err error

	if res.SchemaUpgraded, err = r.upgradeSchema(ctx); err != nil {
		return res, fmt.Errorf("schema migration: %w", err)
	}
	if res.SeededUserID, err = r.seedDefaultUser(ctx); err != nil {
		return res, fmt.Errorf("seed default user: %w", err)
	}
	if res.OrphansAttached, err = r.attachOrphans(ctx); err != nil {
		return res, fmt.Errorf("attach orphan lines: %w", err)
	}

	err = r.repo.View(ctx, func(ds *models.Dataset) error {
		res.Users = len(ds.Users)
		res.Lines = len(ds.Lines)
		return nil
	})
	return res, err
}

// upgradeSchema rewrites the dataset when any stored line was not in
// canonical form or the version was missing.
func (r *Runner) upgradeSchema(ctx context.Context) (bool, error) {
	upgraded := false
	err := r.repo.Apply(ctx, func(ds *models.Dataset, stale bool) (bool, error) {
		if !stale {
			return false, nil
		}
		ds.Version = models.SchemaVersion
		upgraded = true
		return true, nil
	})
	if upgraded {
		logger.Get().Infow("dataset schema upgraded", "version", models.SchemaVersion)
	}
	return upgraded, err
}

// seedDefaultUser creates the seed user when there are no users and hands
// it every line without an owner.
func (r *Runner) seedDefaultUser(ctx context.Context) (string, error) {
	empty := false
	if err := r.repo.View(ctx, func(ds *models.Dataset) error {
		empty = len(ds.Users) == 0
		return nil
	}); err != nil || !empty {
		return "", err
	}

	hash := r.seed.PasswordHash
	if hash == "" {
		var err error
		if hash, err = r.hasher.Hash(r.seed.Password); err != nil {
			return "", err
		}
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     r.seed.Username,
		PasswordHash: hash,
		CreatedAt:    r.now().Unix(),
	}
	attached := 0
	seeded := false
	err := r.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		// re-checked under the lock
		if len(ds.Users) > 0 {
			return false, nil
		}
		ds.Users = append(ds.Users, user)
		for i := range ds.Lines {
			if ds.Lines[i].UserID == "" {
				ds.Lines[i].UserID = user.ID
				attached++
			}
		}
		seeded = true
		return true, nil
	})
	if err != nil || !seeded {
		return "", err
	}

	logger.Get().Infow("default user created", "username", user.Username, "lines_attached", attached)
	return user.ID, nil
}

// attachOrphans gives every line without an owner to the seed user, or to
// the first user when the seed user does not exist.
func (r *Runner) attachOrphans(ctx context.Context) (int, error) {
	attached := 0
	err := r.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		if len(ds.Users) == 0 {
			return false, nil
		}
		owner := ds.Users[0].ID
		if i := ds.FindUsername(r.seed.Username); i >= 0 {
			owner = ds.Users[i].ID
		}
		for i := range ds.Lines {
			if ds.Lines[i].UserID == "" {
				ds.Lines[i].UserID = owner
				attached++
			}
		}
		return attached > 0, nil
	})
	if attached > 0 && err == nil {
		logger.Get().Infow("orphan lines attached", "count", attached)
	}
	return attached, err
}
