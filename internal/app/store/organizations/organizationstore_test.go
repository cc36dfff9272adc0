package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/voluntahub/voluntahub/internal/app/store/organizations"
	"github.com/voluntahub/voluntahub/internal/app/system/indexes"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"github.com/voluntahub/voluntahub/internal/testutil"
)

func TestCreate_GeneratesCodeAndAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := organizationstore.New(db)

	org, err := s.Create(ctx, models.Organization{
		Name:       "Cruz Verde",
		MaxMembers: 50,
		CreatedBy:  "uid-creator",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(org.Code) != 8 {
		t.Errorf("code length: got %d, want 8", len(org.Code))
	}
	if org.Code != "" && org.Code != upper(org.Code) {
		t.Errorf("code is not uppercase: %q", org.Code)
	}
	if !org.Active {
		t.Error("new organization should be active")
	}
	if org.MemberCount != 0 {
		t.Errorf("member count: got %d, want 0", org.MemberCount)
	}
	if len(org.AdminUIDs) != 1 || org.AdminUIDs[0] != "uid-creator" {
		t.Errorf("creator should be an admin, got %v", org.AdminUIDs)
	}
}

func TestCreate_RejectsBadCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := organizationstore.New(db)
	if _, err := s.Create(ctx, models.Organization{Name: "X", MaxMembers: 0}); err == nil {
		t.Fatal("expected error for zero capacity")
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	s := organizationstore.New(db)
	if _, err := s.Create(ctx, models.Organization{Name: "Cruz Verde", MaxMembers: 10}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := s.Create(ctx, models.Organization{Name: "cruz verde", MaxMembers: 10})
	if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		t.Fatalf("expected ErrDuplicateOrganization, got %v", err)
	}
}

func TestGetByCode_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Banco de Alimentos", "AB12CD34", 20)

	s := organizationstore.New(db)
	got, err := s.GetByCode(ctx, "  ab12cd34 ")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if got.ID != org.ID {
		t.Errorf("got org %s, want %s", got.ID.Hex(), org.ID.Hex())
	}

	if _, err := s.GetByCode(ctx, "ZZZZZZZZ"); !errors.Is(err, organizationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestAssignAdmin_DuplicateAndRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Techo", "TC990011", 20)
	s := organizationstore.New(db)

	if err := s.AssignAdmin(ctx, org.ID, "uid-a"); err != nil {
		t.Fatalf("AssignAdmin failed: %v", err)
	}
	if err := s.AssignAdmin(ctx, org.ID, "uid-a"); !errors.Is(err, organizationstore.ErrAlreadyAdmin) {
		t.Fatalf("expected ErrAlreadyAdmin, got %v", err)
	}
	if err := s.RemoveAdmin(ctx, org.ID, "uid-a"); err != nil {
		t.Fatalf("RemoveAdmin failed: %v", err)
	}
	if err := s.RemoveAdmin(ctx, org.ID, "uid-a"); !errors.Is(err, organizationstore.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestAssignAdminByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Hogar de Cristo", "HC445566", 20)
	testutil.CreateUser(t, db, "uid-admin", "admin@example.com")

	s := organizationstore.New(db)
	uid, err := s.AssignAdminByEmail(ctx, org.ID, "Admin@Example.com")
	if err != nil {
		t.Fatalf("AssignAdminByEmail failed: %v", err)
	}
	if uid != "uid-admin" {
		t.Errorf("uid: got %q, want %q", uid, "uid-admin")
	}

	if _, err := s.AssignAdminByEmail(ctx, org.ID, "nobody@example.com"); !errors.Is(err, organizationstore.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func upper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if 'a' <= c && c <= 'z' {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}
