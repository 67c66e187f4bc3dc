package services

import (
	"context"
	"testing"

	"haushaltsbuch/internal/logger"
	"haushaltsbuch/internal/testutil"
)

func init() {
	logger.Init("test")
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		svc := NewUserService(repo, testutil.Hasher())

		user, err := svc.CreateUser(ctx, "alice", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if user.PasswordHash == "password123" {
			t.Error("password must be stored hashed")
		}
		if user.CreatedAt == 0 {
			t.Error("expected created_at to be set")
		}

		stored, err := svc.GetUserByID(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if stored.Username != "alice" {
			t.Errorf("expected stored username alice, got %s", stored.Username)
		}
	})

	t.Run("duplicate_username_case_insensitive", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		svc := NewUserService(repo, testutil.Hasher())

		_, err := svc.CreateUser(ctx, "Alice", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(ctx, "aLiCe", "password456")
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("empty_username", func(t *testing.T) {
		svc := NewUserService(testutil.SetupTestRepository(t), testutil.Hasher())

		_, err := svc.CreateUser(ctx, "  ", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_password", func(t *testing.T) {
		svc := NewUserService(testutil.SetupTestRepository(t), testutil.Hasher())

		_, err := svc.CreateUser(ctx, "bob", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("found_case_insensitive", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		svc := NewUserService(repo, testutil.Hasher())

		created := testutil.CreateTestUserWithUsername(t, repo, "Thom7e")
		user, err := svc.GetUserByUsername(ctx, "THOM7E")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := NewUserService(testutil.SetupTestRepository(t), testutil.Hasher())

		_, err := svc.GetUserByUsername(ctx, "nobody")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		svc := NewUserService(repo, testutil.Hasher())

		created := testutil.CreateTestUser(t, repo)
		user, err := svc.GetUserByID(ctx, created.ID)
		testutil.AssertNoError(t, err)

		if user.Username != created.Username {
			t.Errorf("expected username %s, got %s", created.Username, user.Username)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		svc := NewUserService(testutil.SetupTestRepository(t), testutil.Hasher())

		_, err := svc.GetUserByID(ctx, "missing")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestAttemptLogin(t *testing.T) {
	ctx := context.Background()
	repo := testutil.SetupTestRepository(t)
	svc := NewUserService(repo, testutil.Hasher())
	created := testutil.CreateTestUserWithUsername(t, repo, "anna")

	t.Run("valid", func(t *testing.T) {
		user, err := svc.AttemptLogin(ctx, "ANNA", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user ID %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin(ctx, "anna", "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := svc.AttemptLogin(ctx, "ghost", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}
