package orgpolicy_test

import (
	"testing"

	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	organizationstore "github.com/voluntahub/voluntahub/internal/app/store/organizations"
	"github.com/voluntahub/voluntahub/internal/testutil"
)

func TestCanManage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Cruz Verde", "CV112233", 20)
	orgs := organizationstore.New(db)
	if err := orgs.AssignAdmin(ctx, org.ID, "uid-org-admin"); err != nil {
		t.Fatal(err)
	}

	p := orgpolicy.New(db)
	cases := []struct {
		name string
		role string
		uid  string
		want bool
	}{
		{"global admin", "admin", "uid-anyone", true},
		{"org admin", "user", "uid-org-admin", true},
		{"stranger", "user", "uid-stranger", false},
		{"anonymous", "user", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.CanManage(ctx, tc.role, tc.uid, org.ID)
			if err != nil {
				t.Fatalf("CanManage failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("CanManage(%s, %s) = %v, want %v", tc.role, tc.uid, got, tc.want)
			}
		})
	}
}

func TestManagedOrgs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := testutil.CreateOrganization(t, db, "Alfa", "AL112233", 20)
	testutil.CreateOrganization(t, db, "Beta", "BE112233", 20)

	orgs := organizationstore.New(db)
	if err := orgs.AssignAdmin(ctx, a.ID, "uid-org-admin"); err != nil {
		t.Fatal(err)
	}

	p := orgpolicy.New(db)

	mine, err := p.ManagedOrgs(ctx, "user", "uid-org-admin")
	if err != nil {
		t.Fatalf("ManagedOrgs failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != a.ID {
		t.Errorf("org admin should manage exactly Alfa, got %v", mine)
	}

	all, err := p.ManagedOrgs(ctx, "admin", "uid-global")
	if err != nil {
		t.Fatalf("ManagedOrgs(admin) failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("global admin should manage all, got %d", len(all))
	}

	none, err := p.ManagedOrgs(ctx, "user", "")
	if err != nil {
		t.Fatalf("ManagedOrgs(anonymous) failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("anonymous manages nothing, got %v", none)
	}
}
