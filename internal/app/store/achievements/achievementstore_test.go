package achievementstore_test

import (
	"errors"
	"testing"

	achievementstore "github.com/voluntahub/voluntahub/internal/app/store/achievements"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"github.com/voluntahub/voluntahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_ConditionValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Cruz Verde", "CV112233", 20)
	s := achievementstore.New(db)

	cases := []struct {
		name    string
		ach     models.Achievement
		wantErr bool
	}{
		{"join condition needs no threshold", models.Achievement{
			OrganizationID: org.ID, Name: "Bienvenida",
			Condition: models.Condition{Type: models.CondJoinVolunteering},
		}, false},
		{"events threshold ok", models.Achievement{
			OrganizationID: org.ID, Name: "Cinco eventos",
			Condition: models.Condition{Type: models.CondEventsCompleted, Count: 5},
		}, false},
		{"hours threshold ok", models.Achievement{
			OrganizationID: org.ID, Name: "Veinte horas",
			Condition: models.Condition{Type: models.CondHoursCompleted, Hours: 20},
		}, false},
		{"events threshold zero", models.Achievement{
			OrganizationID: org.ID, Name: "Mal",
			Condition: models.Condition{Type: models.CondEventsCompleted},
		}, true},
		{"hours threshold zero", models.Achievement{
			OrganizationID: org.ID, Name: "Mal",
			Condition: models.Condition{Type: models.CondHoursCompleted},
		}, true},
		{"unknown condition", models.Achievement{
			OrganizationID: org.ID, Name: "Mal",
			Condition: models.Condition{Type: "first_to_arrive"},
		}, true},
		{"blank name", models.Achievement{
			OrganizationID: org.ID, Name: "  ",
			Condition: models.Condition{Type: models.CondJoinVolunteering},
		}, true},
		{"negative bonus", models.Achievement{
			OrganizationID: org.ID, Name: "Mal", Hours: -1,
			Condition: models.Condition{Type: models.CondJoinVolunteering},
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(ctx, tc.ach)
			if tc.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreate_InitialState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Techo", "TE112233", 20)
	s := achievementstore.New(db)

	a, err := s.Create(ctx, models.Achievement{
		OrganizationID: org.ID,
		Name:           "Constancia",
		Condition:      models.Condition{Type: models.CondEventsCompleted, Count: 3},
		Hours:          2,
		CreatedBy:      "uid-admin",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !a.IsActive {
		t.Error("new achievement should be active")
	}
	if a.AssignedTo == nil || len(a.AssignedTo) != 0 {
		t.Errorf("assignment list should start empty, got %v", a.AssignedTo)
	}

	got, err := s.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Constancia" || got.Hours != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestListByOrg_ActiveFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Hogar", "HO112233", 20)
	other := testutil.CreateOrganization(t, db, "Otra", "OT112233", 20)
	a1 := testutil.CreateAchievement(t, db, org, "Activo",
		models.Condition{Type: models.CondJoinVolunteering}, 0)
	a2 := testutil.CreateAchievement(t, db, org, "Apagado",
		models.Condition{Type: models.CondJoinVolunteering}, 0)
	testutil.CreateAchievement(t, db, other, "Ajeno",
		models.Condition{Type: models.CondJoinVolunteering}, 0)

	s := achievementstore.New(db)
	if err := s.SetActive(ctx, a2.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	all, err := s.ListByOrg(ctx, org.ID, false)
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all: got %d, want 2", len(all))
	}

	active, err := s.ListByOrg(ctx, org.ID, true)
	if err != nil {
		t.Fatalf("ListByOrg(active) failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != a1.ID {
		t.Errorf("active: got %v", active)
	}
}

func TestSetActiveAndDelete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := achievementstore.New(db)
	ghost := primitive.NewObjectID()
	if err := s.SetActive(ctx, ghost, true); !errors.Is(err, achievementstore.ErrNotFound) {
		t.Errorf("SetActive: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, ghost); !errors.Is(err, achievementstore.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetByID(ctx, ghost); !errors.Is(err, achievementstore.ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}
}
