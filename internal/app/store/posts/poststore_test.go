package poststore_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	poststore "github.com/voluntahub/voluntahub/internal/app/store/posts"
	"github.com/voluntahub/voluntahub/internal/domain/models"
	"github.com/voluntahub/voluntahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_SanitizesContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Cruz Verde", "CV112233", 20)
	s := poststore.New(db)

	p, err := s.Create(ctx, models.Post{
		OrganizationID: org.ID,
		Title:          `Aviso <script>alert("x")</script>`,
		Content:        `<p>Traigan <b>guantes</b></p><script>steal()</script>`,
		CreatedBy:      "uid-admin",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if strings.Contains(p.Title, "<script>") || strings.Contains(p.Content, "<script>") {
		t.Errorf("script tags survived sanitization: %q / %q", p.Title, p.Content)
	}
	if !strings.Contains(p.Content, "<b>guantes</b>") {
		t.Errorf("benign markup should survive, got %q", p.Content)
	}
	if p.Type != "announcement" {
		t.Errorf("default type: got %q", p.Type)
	}
}

func TestCreate_RejectsEmptyAfterSanitization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Techo", "TE112233", 20)
	s := poststore.New(db)

	// The title is nothing but script, so sanitization leaves it empty.
	if _, err := s.Create(ctx, models.Post{
		OrganizationID: org.ID,
		Title:          `<script>alert("x")</script>`,
		Content:        "hola",
	}); err == nil {
		t.Error("expected error for script-only title")
	}
	if _, err := s.Create(ctx, models.Post{
		OrganizationID: org.ID,
		Title:          "Aviso",
		Content:        "   ",
	}); err == nil {
		t.Error("expected error for blank content")
	}
}

func TestListByOrg_NewestFirstAndCapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Hogar", "HO112233", 20)
	other := testutil.CreateOrganization(t, db, "Otra", "OT112233", 20)
	s := poststore.New(db)

	for i := 0; i < 25; i++ {
		if _, err := s.Create(ctx, models.Post{
			OrganizationID: org.ID,
			Title:          fmt.Sprintf("Aviso %d", i),
			Content:        "contenido",
		}); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}
	if _, err := s.Create(ctx, models.Post{
		OrganizationID: other.ID,
		Title:          "Ajeno",
		Content:        "contenido",
	}); err != nil {
		t.Fatal(err)
	}

	posts, err := s.ListByOrg(ctx, org.ID)
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	if len(posts) != 20 {
		t.Errorf("wall size: got %d, want 20", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Fatal("wall is not newest first")
		}
	}
	for _, p := range posts {
		if p.OrganizationID != org.ID {
			t.Fatal("another organization's post leaked into the wall")
		}
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := testutil.CreateOrganization(t, db, "Borrada", "BO112233", 20)
	s := poststore.New(db)

	p, err := s.Create(ctx, models.Post{OrganizationID: org.ID, Title: "Aviso", Content: "contenido"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, poststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
