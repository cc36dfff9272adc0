package attendancestore_test

import (
	"errors"
	"math"
	"testing"
	"time"

	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	membershipstore "github.com/voluntahub/voluntahub/internal/app/store/memberships"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"github.com/voluntahub/voluntahub/internal/testutil"
	"go.uber.org/zap"
)

func ledgerSum(history []models.HourEntry) float64 {
	var sum float64
	for _, e := range history {
		sum += e.Hours
	}
	return sum
}

func TestMark_CreditsEventDuration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Cruz Verde", "CV112233", 20)
	member := testutil.CreateMember(t, db, "uid-1", "one@example.com", org)
	ev := testutil.CreateEvent(t, db, org, "Jornada larga", time.Now().Add(-2*time.Hour), 3, 10, member.UID)

	s := attendancestore.New(db, zap.NewNop())
	if err := s.Mark(ctx, ev.ID, member.UID, "uid-admin"); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}

	regs := membershipstore.New(db, zap.NewNop())
	reg, err := regs.Registry(ctx, member.UID, org.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reg.TotalHours != 3 {
		t.Errorf("total hours: got %v, want 3", reg.TotalHours)
	}
	if reg.EventsCompleted != 1 {
		t.Errorf("events completed: got %d, want 1", reg.EventsCompleted)
	}
	if len(reg.HoursHistory) != 1 {
		t.Fatalf("history length: got %d, want 1", len(reg.HoursHistory))
	}
	entry := reg.HoursHistory[0]
	if entry.Type != models.HourTypeAttendance || entry.Hours != 3 || entry.Event != "Jornada larga" {
		t.Errorf("unexpected ledger entry: %+v", entry)
	}
	if reg.TotalHours != ledgerSum(reg.HoursHistory) {
		t.Errorf("total %v != ledger sum %v", reg.TotalHours, ledgerSum(reg.HoursHistory))
	}
	if reg.LastEventDate == nil || reg.LastHoursUpdate == nil {
		t.Error("last_event_date and last_hours_update should be set")
	}
}

func TestMark_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Techo", "TE112233", 20)
	member := testutil.CreateMember(t, db, "uid-1", "one@example.com", org)
	ev := testutil.CreateEvent(t, db, org, "Construccion", time.Now(), 2, 10, member.UID)

	s := attendancestore.New(db, zap.NewNop())
	if err := s.Mark(ctx, ev.ID, member.UID, "uid-admin"); err != nil {
		t.Fatalf("first Mark failed: %v", err)
	}
	// A repeat is a no-op that still reports success.
	if err := s.Mark(ctx, ev.ID, member.UID, "uid-admin"); err != nil {
		t.Fatalf("repeat Mark should succeed silently, got %v", err)
	}

	regs := membershipstore.New(db, zap.NewNop())
	reg, err := regs.Registry(ctx, member.UID, org.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reg.TotalHours != 2 || reg.EventsCompleted != 1 || len(reg.HoursHistory) != 1 {
		t.Errorf("repeat mark double-credited: hours=%v events=%d entries=%d",
			reg.TotalHours, reg.EventsCompleted, len(reg.HoursHistory))
	}
}

func TestMark_RequiresEnrollment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Hogar", "HO112233", 20)
	testutil.CreateMember(t, db, "uid-1", "one@example.com", org)
	ev := testutil.CreateEvent(t, db, org, "Evento", time.Now(), 2, 10)

	s := attendancestore.New(db, zap.NewNop())
	if err := s.Mark(ctx, ev.ID, "uid-1", "uid-admin"); !errors.Is(err, attendancestore.ErrNotParticipant) {
		t.Errorf("expected ErrNotParticipant, got %v", err)
	}
}

func TestMarkBatch_PartialFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Banco", "BA112233", 20)
	m1 := testutil.CreateMember(t, db, "uid-1", "one@example.com", org)
	m2 := testutil.CreateMember(t, db, "uid-2", "two@example.com", org)
	testutil.CreateMember(t, db, "uid-3", "three@example.com", org)
	ev := testutil.CreateEvent(t, db, org, "Reparto", time.Now(), 2, 10, m1.UID, m2.UID)

	s := attendancestore.New(db, zap.NewNop())
	// uid-2 is marked beforehand, so the batch must report it as failed.
	if err := s.Mark(ctx, ev.ID, m2.UID, "uid-admin"); err != nil {
		t.Fatalf("pre-mark failed: %v", err)
	}

	result, err := s.MarkBatch(ctx, ev.ID, []string{"uid-1", "uid-2", "uid-3"}, "uid-admin")
	if err != nil {
		t.Fatalf("MarkBatch failed: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("total: got %d, want 3", result.Total)
	}
	if result.Credited != 1 {
		t.Errorf("credited: got %d, want 1 (only uid-1)", result.Credited)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("failed: got %d, want 2", len(result.Failed))
	}
	if result.Credited+len(result.Failed) != result.Total {
		t.Error("credited + failed must equal total")
	}

	// uid-2 must not be double-credited by the batch.
	regs := membershipstore.New(db, zap.NewNop())
	reg, err := regs.Registry(ctx, m2.UID, org.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reg.TotalHours != 2 || len(reg.HoursHistory) != 1 {
		t.Errorf("uid-2 double-credited: hours=%v entries=%d", reg.TotalHours, len(reg.HoursHistory))
	}
}

func TestAddHours_ManualEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Manual", "MA112233", 20)
	member := testutil.CreateMember(t, db, "uid-1", "one@example.com", org)

	s := attendancestore.New(db, zap.NewNop())
	if err := s.AddHours(ctx, member.UID, org.ID, 4.5, "Apoyo logistico", "fin de semana", "uid-admin"); err != nil {
		t.Fatalf("AddHours failed: %v", err)
	}

	regs := membershipstore.New(db, zap.NewNop())
	reg, err := regs.Registry(ctx, member.UID, org.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reg.TotalHours != 4.5 {
		t.Errorf("total hours: got %v, want 4.5", reg.TotalHours)
	}
	// Manual credits do not count as completed events.
	if reg.EventsCompleted != 0 {
		t.Errorf("events completed: got %d, want 0", reg.EventsCompleted)
	}
	if len(reg.HoursHistory) != 1 || reg.HoursHistory[0].Type != models.HourTypeManual {
		t.Errorf("unexpected ledger: %+v", reg.HoursHistory)
	}
}

func TestAddHours_RejectsBadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Valida", "VA112233", 20)
	member := testutil.CreateMember(t, db, "uid-1", "one@example.com", org)

	s := attendancestore.New(db, zap.NewNop())
	cases := []struct {
		name  string
		hours float64
	}{
		{"zero", 0},
		{"negative", -2},
		{"NaN", math.NaN()},
		{"Inf", math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.AddHours(ctx, member.UID, org.ID, tc.hours, "x", "", "uid-admin"); err == nil {
				t.Errorf("AddHours(%v) should fail", tc.hours)
			}
		})
	}
	if err := s.AddHours(ctx, member.UID, org.ID, 1, "  ", "", "uid-admin"); err == nil {
		t.Error("empty activity should fail")
	}
	if err := s.AddHours(ctx, "uid-ghost", org.ID, 1, "x", "", "uid-admin"); !errors.Is(err, attendancestore.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}
