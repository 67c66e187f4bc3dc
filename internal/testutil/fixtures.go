package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"haushaltsbuch/internal/auth"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/store"
	"haushaltsbuch/internal/uuid"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Hasher returns a password hasher with the cheapest bcrypt cost.
func Hasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, repo *store.Repository) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, repo, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, repo *store.Repository, username string) *models.User {
	t.Helper()

	hash, err := Hasher().Hash(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().Unix(),
	}
	insert(t, repo, func(ds *models.Dataset) { ds.Users = append(ds.Users, user) })
	return &user
}

// CreateTestLine creates a line without subitems.
func CreateTestLine(t *testing.T, repo *store.Repository, userID, label string, lineType models.LineType, category string, amount float64) *models.Line {
	t.Helper()
	return CreateTestLineWithSubitems(t, repo, userID, label, lineType, category, amount)
}

// CreateTestLineWithSubitems creates a line with one subitem per amount.
func CreateTestLineWithSubitems(t *testing.T, repo *store.Repository, userID, label string, lineType models.LineType, category string, amount float64, subitems ...float64) *models.Line {
	t.Helper()

	line := models.Line{
		ID:         uuid.New(),
		Label:      label,
		Type:       lineType,
		Category:   category,
		BaseAmount: amount,
		Subitems:   make([]models.Subitem, 0, len(subitems)),
		UserID:     userID,
	}
	for i, a := range subitems {
		line.Subitems = append(line.Subitems, models.Subitem{
			ID:     uuid.New(),
			Label:  fmt.Sprintf("Part %d", i+1),
			Amount: a,
		})
	}
	insert(t, repo, func(ds *models.Dataset) { ds.Lines = append(ds.Lines, line) })
	return &line
}

// GetTestLine loads a line by id regardless of owner.
func GetTestLine(t *testing.T, repo *store.Repository, lineID string) *models.Line {
	t.Helper()

	var found *models.Line
	err := repo.View(context.Background(), func(ds *models.Dataset) error {
		for _, l := range ds.Lines {
			if l.ID == lineID {
				c := l.Clone()
				found = &c
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read dataset: %v", err)
	}
	return found
}

func insert(t *testing.T, repo *store.Repository, fn func(ds *models.Dataset)) {
	t.Helper()
	err := repo.Update(context.Background(), func(ds *models.Dataset) (bool, error) {
		fn(ds)
		return true, nil
	})
	if err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}
