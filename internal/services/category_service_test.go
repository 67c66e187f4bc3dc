package services

import (
	"context"
	"reflect"
	"testing"

	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/testutil"
)

func TestGetUserCategories(t *testing.T) {
	ctx := context.Background()
	repo := testutil.SetupTestRepository(t)
	user := testutil.CreateTestUser(t, repo)
	other := testutil.CreateTestUser(t, repo)
	svc := NewCategoryService(repo)

	testutil.CreateTestLine(t, repo, user.ID, "a", models.LineTypeExpense, "Wohnen", 1)
	testutil.CreateTestLine(t, repo, user.ID, "b", models.LineTypeExpense, "Food", 1)
	testutil.CreateTestLine(t, repo, user.ID, "c", models.LineTypeIncome, "Food", 1)
	testutil.CreateTestLine(t, repo, other.ID, "d", models.LineTypeExpense, "Hidden", 1)

	got, err := svc.GetUserCategories(ctx, user.ID)
	testutil.AssertNoError(t, err)

	if want := []string{"Food", "Wohnen"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	empty, err := svc.GetUserCategories(ctx, "nobody")
	testutil.AssertNoError(t, err)
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", empty)
	}
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults_by_type", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		user := testutil.CreateTestUser(t, repo)
		svc := NewCategoryService(repo)

		expense := testutil.CreateTestLine(t, repo, user.ID, "Bread", models.LineTypeExpense, "Food", 3)
		income := testutil.CreateTestLine(t, repo, user.ID, "Refund", models.LineTypeIncome, "FOOD", 1)

		updated, err := svc.DeleteCategory(ctx, user.ID, "food", "")
		testutil.AssertNoError(t, err)
		if updated != 2 {
			t.Errorf("expected 2 updated lines, got %d", updated)
		}

		if got := testutil.GetTestLine(t, repo, expense.ID).Category; got != "sonstige ausgaben" {
			t.Errorf("expected sonstige ausgaben, got %q", got)
		}
		if got := testutil.GetTestLine(t, repo, income.ID).Category; got != "sonstige einnahmen" {
			t.Errorf("expected sonstige einnahmen, got %q", got)
		}
	})

	t.Run("explicit_target", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		user := testutil.CreateTestUser(t, repo)
		svc := NewCategoryService(repo)

		line := testutil.CreateTestLine(t, repo, user.ID, "Bread", models.LineTypeExpense, "Food", 3)

		updated, err := svc.DeleteCategory(ctx, user.ID, "Food", "Lebensmittel")
		testutil.AssertNoError(t, err)
		if updated != 1 {
			t.Errorf("expected 1 updated line, got %d", updated)
		}
		if got := testutil.GetTestLine(t, repo, line.ID).Category; got != "Lebensmittel" {
			t.Errorf("expected Lebensmittel, got %q", got)
		}
	})

	t.Run("target_is_stored_as_given", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		user := testutil.CreateTestUser(t, repo)
		svc := NewCategoryService(repo)

		line := testutil.CreateTestLine(t, repo, user.ID, "Bread", models.LineTypeExpense, "Food", 3)
		blank := testutil.CreateTestLine(t, repo, user.ID, "Milk", models.LineTypeExpense, "Drinks", 1)

		_, err := svc.DeleteCategory(ctx, user.ID, "Food", " Lebensmittel ")
		testutil.AssertNoError(t, err)
		if got := testutil.GetTestLine(t, repo, line.ID).Category; got != " Lebensmittel " {
			t.Errorf("expected %q, got %q", " Lebensmittel ", got)
		}

		_, err = svc.DeleteCategory(ctx, user.ID, "Drinks", "  ")
		testutil.AssertNoError(t, err)
		if got := testutil.GetTestLine(t, repo, blank.ID).Category; got != "  " {
			t.Errorf("expected whitespace target kept, got %q", got)
		}
	})

	t.Run("no_match_no_write", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		user := testutil.CreateTestUser(t, repo)
		testutil.CreateTestLine(t, repo, user.ID, "Bread", models.LineTypeExpense, "Food", 3)
		svc := NewCategoryService(repo)

		writes := 0
		repo.OnWrite(func(string, int) { writes++ })

		updated, err := svc.DeleteCategory(ctx, user.ID, "Travel", "")
		testutil.AssertNoError(t, err)
		if updated != 0 || writes != 0 {
			t.Errorf("expected no change, got updated=%d writes=%d", updated, writes)
		}
	})

	t.Run("blank_name", func(t *testing.T) {
		svc := NewCategoryService(testutil.SetupTestRepository(t))

		_, err := svc.DeleteCategory(ctx, "u", " ", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestRenameCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("scoped_to_user", func(t *testing.T) {
		repo := testutil.SetupTestRepository(t)
		user := testutil.CreateTestUser(t, repo)
		other := testutil.CreateTestUser(t, repo)
		svc := NewCategoryService(repo)

		mine := []*models.Line{
			testutil.CreateTestLine(t, repo, user.ID, "Bread", models.LineTypeExpense, "Food", 3),
			testutil.CreateTestLine(t, repo, user.ID, "Milk", models.LineTypeExpense, "food", 1),
			testutil.CreateTestLine(t, repo, user.ID, "Cheese", models.LineTypeExpense, "FOOD", 5),
		}
		untouched := testutil.CreateTestLine(t, repo, user.ID, "Bus", models.LineTypeExpense, "Transport", 2)
		theirs := testutil.CreateTestLine(t, repo, other.ID, "Apples", models.LineTypeExpense, "food", 2)

		updated, err := svc.RenameCategory(ctx, user.ID, " Food ", "Groceries")
		testutil.AssertNoError(t, err)
		if updated != 3 {
			t.Errorf("expected 3 updated lines, got %d", updated)
		}

		for _, l := range mine {
			if got := testutil.GetTestLine(t, repo, l.ID).Category; got != "Groceries" {
				t.Errorf("line %s: expected Groceries, got %q", l.Label, got)
			}
		}
		if got := testutil.GetTestLine(t, repo, untouched.ID).Category; got != "Transport" {
			t.Errorf("unrelated category changed to %q", got)
		}
		if got := testutil.GetTestLine(t, repo, theirs.ID).Category; got != "food" {
			t.Errorf("another user's line changed to %q", got)
		}
	})

	t.Run("empty_names", func(t *testing.T) {
		svc := NewCategoryService(testutil.SetupTestRepository(t))

		_, err := svc.RenameCategory(ctx, "u", "", "Groceries")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.RenameCategory(ctx, "u", "Food", "   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
