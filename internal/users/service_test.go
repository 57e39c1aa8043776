package users_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/users"
	"github.com/lumenworks/sectioncms/internal/validation"
	"github.com/lumenworks/sectioncms/pkg/testsupport"
	"golang.org/x/crypto/bcrypt"
)

func newService(repo users.Repository) users.Service {
	return users.NewService(repo, users.WithHashCost(bcrypt.MinCost))
}

func TestUserServiceCreateNormalisesEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(users.NewMemoryRepository())

	created, err := svc.Create(ctx, users.CreateUserRequest{Email: "  Editor@Example.COM ", Password: "correct horse"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "editor@example.com" || created.Role != domain.RoleViewer {
		t.Fatalf("unexpected user %+v", created)
	}
	if created.PasswordHash == "correct horse" || !strings.HasPrefix(created.PasswordHash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", created.PasswordHash)
	}
	raw, _ := json.Marshal(created)
	if strings.Contains(string(raw), "password") {
		t.Fatalf("password hash leaked into json: %s", raw)
	}

	if _, err := svc.Create(ctx, users.CreateUserRequest{Email: "EDITOR@example.com", Password: "another pass"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected case-insensitive conflict, got %v", err)
	}
	if got, err := svc.GetByEmail(ctx, "EDITOR@EXAMPLE.COM"); err != nil || got.ID != created.ID {
		t.Fatalf("expected lookup by email, got %+v %v", got, err)
	}
}

func TestUserServiceValidation(t *testing.T) {
	svc := newService(users.NewMemoryRepository())
	_, err := svc.Create(context.Background(), users.CreateUserRequest{Email: "not-an-email", Password: "short", Role: "OWNER"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	paths := map[string]bool{}
	for _, issue := range validation.Issues(err) {
		paths[issue.Path] = true
	}
	for _, want := range []string{"/email", "/password", "/role"} {
		if !paths[want] {
			t.Fatalf("missing issue %s in %+v", want, validation.Issues(err))
		}
	}
}

func TestUserServiceVerifyPassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(users.NewMemoryRepository())
	created, _ := svc.Create(ctx, users.CreateUserRequest{Email: "admin@example.com", Password: "s3cret-pass", Role: domain.RoleAdmin})

	got, err := svc.VerifyPassword(ctx, "Admin@example.com", "s3cret-pass")
	if err != nil || got.ID != created.ID {
		t.Fatalf("expected verified user, got %+v %v", got, err)
	}
	if _, err := svc.VerifyPassword(ctx, "admin@example.com", "wrong"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.VerifyPassword(ctx, "ghost@example.com", "s3cret-pass"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestUserServiceRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(users.NewMemoryRepository())
	created, _ := svc.Create(ctx, users.CreateUserRequest{Email: "a@example.com", Password: "password1"})

	updated, err := svc.UpdateRole(ctx, users.UpdateRoleRequest{ID: created.ID, Role: domain.RoleEditor})
	if err != nil || updated.Role != domain.RoleEditor {
		t.Fatalf("expected editor role, got %+v %v", updated, err)
	}
	if _, err := svc.UpdateRole(ctx, users.UpdateRoleRequest{ID: created.ID, Role: "ROOT"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateRole(ctx, users.UpdateRoleRequest{ID: 404, Role: domain.RoleAdmin}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Create(ctx, users.CreateUserRequest{Email: "a@example.com", Password: "password2"}); err != nil {
		t.Fatalf("expected email to be reusable after delete: %v", err)
	}
}

func TestBunUserRepository(t *testing.T) {
	db := testsupport.NewMigratedDB(t)
	ctx := context.Background()
	repo := users.NewBunRepository(db)
	svc := newService(repo)

	for _, email := range []string{"b@example.com", "a@example.com"} {
		if _, err := svc.Create(ctx, users.CreateUserRequest{Email: email, Password: "password1"}); err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
	}
	if _, err := repo.Create(ctx, &users.User{Email: "a@example.com", PasswordHash: "x", Role: domain.RoleViewer}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected unique violation mapped to conflict, got %v", err)
	}

	list, err := svc.List(ctx, domain.ListOptions{SortBy: "email"})
	if err != nil || list.Total != 2 || list.Items[0].Email != "a@example.com" {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
	updated, err := svc.UpdateRole(ctx, users.UpdateRoleRequest{ID: list.Items[0].ID, Role: domain.RoleAdmin})
	if err != nil || updated.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role update %+v %v", updated, err)
	}
	if _, err := svc.VerifyPassword(ctx, "a@example.com", "password1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.Delete(ctx, updated.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, updated.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
