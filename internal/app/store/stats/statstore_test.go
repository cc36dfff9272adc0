package statstore_test

import (
	"testing"
	"time"

	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	eventstore "github.com/voluntahub/voluntahub/internal/app/store/events"
	membershipstore "github.com/voluntahub/voluntahub/internal/app/store/memberships"
	statstore "github.com/voluntahub/voluntahub/internal/app/store/stats"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"github.com/voluntahub/voluntahub/internal/testutil"
	"go.uber.org/zap"
)

func TestForOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Cruz Verde", "CV112233", 20)
	m1 := testutil.CreateMember(t, db, "uid-1", "one@example.com", org)
	m2 := testutil.CreateMember(t, db, "uid-2", "two@example.com", org)

	// One member goes inactive.
	regs := membershipstore.New(db, zap.NewNop())
	if err := regs.SetMemberStatus(ctx, m2.UID, org.ID, models.MemberInactive); err != nil {
		t.Fatal(err)
	}

	// uid-1 attends a 3-hour event; another event stays open.
	ev := testutil.CreateEvent(t, db, org, "Jornada", time.Now().Add(-time.Hour), 3, 10, m1.UID)
	testutil.CreateEvent(t, db, org, "Futura", time.Now().Add(24*time.Hour), 2, 10)

	att := attendancestore.New(db, zap.NewNop())
	if err := att.Mark(ctx, ev.ID, m1.UID, "uid-admin"); err != nil {
		t.Fatal(err)
	}
	events := eventstore.New(db, zap.NewNop())
	if err := events.Close(ctx, ev.ID, "uid-admin", "done"); err != nil {
		t.Fatal(err)
	}

	s := statstore.New(db)
	stats, err := s.ForOrg(ctx, org.ID)
	if err != nil {
		t.Fatalf("ForOrg failed: %v", err)
	}
	if stats.Members != 2 {
		t.Errorf("members: got %d, want 2", stats.Members)
	}
	if stats.ActiveMembers != 1 {
		t.Errorf("active members: got %d, want 1", stats.ActiveMembers)
	}
	if stats.TotalHours != 3 {
		t.Errorf("total hours: got %v, want 3", stats.TotalHours)
	}
	if stats.EventsCompleted != 1 {
		t.Errorf("events completed: got %d, want 1", stats.EventsCompleted)
	}
	if stats.OpenEvents != 1 || stats.ClosedEvents != 1 {
		t.Errorf("events: open=%d closed=%d, want 1/1", stats.OpenEvents, stats.ClosedEvents)
	}
	if stats.AvgHoursPerMember != 1.5 {
		t.Errorf("avg hours: got %v, want 1.5", stats.AvgHoursPerMember)
	}
}

func TestForOrg_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Vacia", "VA112233", 20)

	s := statstore.New(db)
	stats, err := s.ForOrg(ctx, org.ID)
	if err != nil {
		t.Fatalf("ForOrg failed: %v", err)
	}
	if stats.Members != 0 || stats.TotalHours != 0 || stats.AvgHoursPerMember != 0 {
		t.Errorf("empty org stats should be zero: %+v", stats)
	}
}

func TestHoursByType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Tipos", "TI112233", 20)
	member := testutil.CreateMember(t, db, "uid-1", "one@example.com", org)

	att := attendancestore.New(db, zap.NewNop())
	ev := testutil.CreateEvent(t, db, org, "Jornada", time.Now(), 2, 10, member.UID)
	if err := att.Mark(ctx, ev.ID, member.UID, "uid-admin"); err != nil {
		t.Fatal(err)
	}
	if err := att.AddHours(ctx, member.UID, org.ID, 4, "Apoyo", "", "uid-admin"); err != nil {
		t.Fatal(err)
	}

	s := statstore.New(db)
	byType, err := s.HoursByType(ctx, member.UID, org.ID)
	if err != nil {
		t.Fatalf("HoursByType failed: %v", err)
	}
	if byType[models.HourTypeAttendance] != 2 {
		t.Errorf("attendance hours: got %v, want 2", byType[models.HourTypeAttendance])
	}
	if byType[models.HourTypeManual] != 4 {
		t.Errorf("manual hours: got %v, want 4", byType[models.HourTypeManual])
	}
}
