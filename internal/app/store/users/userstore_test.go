package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/voluntahub/voluntahub/internal/app/store/users"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"github.com/voluntahub/voluntahub/internal/testutil"
)

func TestUpsert_CreatesThenRefreshes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)
	if err := s.Upsert(ctx, models.User{
		UID:       "uid-1",
		FirstName: "Ana",
		LastName:  "Diaz",
		Email:     " Ana@Example.COM ",
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	u, err := s.GetByUID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("GetByUID failed: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Role != "user" || u.Status != "active" {
		t.Errorf("defaults: role=%q status=%q", u.Role, u.Status)
	}

	// Promote, then re-upsert with a new name: the role must survive.
	if err := s.SetRole(ctx, "uid-1", "admin"); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	if err := s.Upsert(ctx, models.User{
		UID:       "uid-1",
		FirstName: "Ana Maria",
		LastName:  "Diaz",
		Email:     "ana@example.com",
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	u, err = s.GetByUID(ctx, "uid-1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "admin" {
		t.Errorf("upsert demoted the user: role=%q", u.Role)
	}
	if u.FirstName != "Ana Maria" {
		t.Errorf("profile not refreshed: %q", u.FirstName)
	}
}

func TestGetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	testutil.CreateUser(t, db, "uid-1", "one@example.com")

	s := userstore.New(db)
	u, err := s.GetByEmail(ctx, " One@Example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if u.UID != "uid-1" {
		t.Errorf("uid: got %q", u.UID)
	}
	if _, err := s.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetRole_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)
	if err := s.SetRole(ctx, "uid-ghost", "admin"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)

	// No account yet: nothing to promote, no placeholder created.
	matched, err := s.EnsureAdmin(ctx, "boss@example.com")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if matched {
		t.Error("EnsureAdmin should not match before the account exists")
	}
	if _, err := s.GetByEmail(ctx, "boss@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("EnsureAdmin must not create accounts, got %v", err)
	}

	testutil.CreateUser(t, db, "uid-boss", "boss@example.com")
	matched, err = s.EnsureAdmin(ctx, "Boss@Example.com")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if !matched {
		t.Fatal("EnsureAdmin should match the existing account")
	}
	u, err := s.GetByUID(ctx, "uid-boss")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "admin" {
		t.Errorf("role after promotion: got %q, want admin", u.Role)
	}

	// Blank email is a no-op.
	if matched, err := s.EnsureAdmin(ctx, "  "); err != nil || matched {
		t.Errorf("blank email: matched=%v err=%v", matched, err)
	}
}
