package members_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voluntahub/voluntahub/internal/app/features/members"
	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	attendancestore "github.com/voluntahub/voluntahub/internal/app/store/attendance"
	grantstore "github.com/voluntahub/voluntahub/internal/app/store/grants"
	membershipstore "github.com/voluntahub/voluntahub/internal/app/store/memberships"
	statstore "github.com/voluntahub/voluntahub/internal/app/store/stats"
	"github.com/voluntahub/voluntahub/internal/app/system/auth"
	"github.com/voluntahub/voluntahub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *members.Handler {
	log := zap.NewNop()
	return members.NewHandler(
		membershipstore.New(db, log),
		attendancestore.New(db, log),
		grantstore.New(db.Client(), db, log),
		statstore.New(db),
		orgpolicy.New(db),
		log,
	)
}

func TestHandleJoin(t *testing.T) {
	db := testutil.SetupTestDB(t)

	org := testutil.CreateOrganization(t, db, "Cruz Verde", "CV112233", 20)
	testutil.CreateUser(t, db, "uid-1", "one@example.com")

	h := newHandler(db)

	req := httptest.NewRequest("POST", "/members/join", strings.NewReader(`{"code":"cv112233"}`))
	req = auth.WithUser(req, &auth.SessionUser{UID: "uid-1", Role: "user"})
	rec := httptest.NewRecorder()

	h.HandleJoin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Organization struct {
			Code string `json:"code"`
		} `json:"organization"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Organization.Code != org.Code {
		t.Errorf("joined code: got %q, want %q", resp.Organization.Code, org.Code)
	}

	// A repeat join conflicts.
	req = httptest.NewRequest("POST", "/members/join", strings.NewReader(`{"code":"CV112233"}`))
	req = auth.WithUser(req, &auth.SessionUser{UID: "uid-1", Role: "user"})
	rec = httptest.NewRecorder()
	h.HandleJoin(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("repeat join status: got %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleJoin_UnknownCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "uid-1", "one@example.com")

	h := newHandler(db)

	req := httptest.NewRequest("POST", "/members/join", strings.NewReader(`{"code":"NOPE0000"}`))
	req = auth.WithUser(req, &auth.SessionUser{UID: "uid-1", Role: "user"})
	rec := httptest.NewRecorder()

	h.HandleJoin(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleJoin_RequiresCode(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)

	req := httptest.NewRequest("POST", "/members/join", strings.NewReader(`{}`))
	req = auth.WithUser(req, &auth.SessionUser{UID: "uid-1", Role: "user"})
	rec := httptest.NewRecorder()

	h.HandleJoin(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleLeave_NotMember(t *testing.T) {
	db := testutil.SetupTestDB(t)

	org := testutil.CreateOrganization(t, db, "Techo", "TE112233", 20)
	testutil.CreateUser(t, db, "uid-1", "one@example.com")

	h := newHandler(db)

	req := httptest.NewRequest("POST", "/members/"+org.ID.Hex()+"/leave", nil)
	req = auth.WithUser(req, &auth.SessionUser{UID: "uid-1", Role: "user"})
	req = testutil.WithChiURLParam(req, "orgID", org.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleLeave(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}
