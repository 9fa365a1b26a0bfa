package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/shared"
)

func testDB(t *testing.T) *UserRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewUserRepository(db)
}

func newTestUser(email string) *models.User {
	u := models.NewUser(email, "Ivan", "Petrov", models.RoleUser)
	u.PasswordHash = "$2a$12$fakehashfakehashfakehash"
	return u
}

func TestUserRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repo := testDB(t)
		user := newTestUser("ivan@example.com")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		if user.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence)
		}

		got, err := repo.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Email != "ivan@example.com" || got.Role != models.RoleUser || !got.Active {
			t.Errorf("unexpected user: %+v", got)
		}

		byEmail, err := repo.GetByEmail("ivan@example.com")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if byEmail.ID != user.ID {
			t.Errorf("expected same user, got %s", byEmail.ID)
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		repo := testDB(t)
		if err := repo.Create(newTestUser("dup@example.com")); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		err := repo.Create(newTestUser("dup@example.com"))
		if !errors.Is(err, shared.ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("Sequence Increments", func(t *testing.T) {
		repo := testDB(t)
		a := newTestUser("a@example.com")
		b := newTestUser("b@example.com")
		repo.Create(a)
		repo.Create(b)
		if a.Sequence != 1 || b.Sequence != 2 {
			t.Errorf("expected sequences 1,2 got %d,%d", a.Sequence, b.Sequence)
		}
	})

	t.Run("Set Role And Active", func(t *testing.T) {
		repo := testDB(t)
		user := newTestUser("role@example.com")
		repo.Create(user)

		if err := repo.SetRole(user.ID, models.RoleAdmin); err != nil {
			t.Fatalf("failed to set role: %v", err)
		}
		if err := repo.SetActive(user.ID, false); err != nil {
			t.Fatalf("failed to set active: %v", err)
		}

		got, _ := repo.Get(user.ID)
		if got.Role != models.RoleAdmin || got.Active {
			t.Errorf("unexpected user after updates: %+v", got)
		}

		if err := repo.SetRole(user.ID, models.Role("bogus")); err == nil {
			t.Error("expected error for invalid role")
		}
	})

	t.Run("Tokens Roundtrip", func(t *testing.T) {
		repo := testDB(t)
		user := newTestUser("tok@example.com")
		repo.Create(user)

		if err := repo.SetTokens(user.ID, "enc-vk", "enc-ya"); err != nil {
			t.Fatalf("failed to set tokens: %v", err)
		}

		got, _ := repo.Get(user.ID)
		if got.VKToken != "enc-vk" || got.YandexToken != "enc-ya" {
			t.Errorf("unexpected tokens: %q %q", got.VKToken, got.YandexToken)
		}

		// Clearing stores NULLs which scan back as empty strings.
		if err := repo.SetTokens(user.ID, "", ""); err != nil {
			t.Fatalf("failed to clear tokens: %v", err)
		}
		got, _ = repo.Get(user.ID)
		if got.VKToken != "" || got.YandexToken != "" {
			t.Errorf("expected cleared tokens, got %q %q", got.VKToken, got.YandexToken)
		}
	})

	t.Run("Soft Delete", func(t *testing.T) {
		repo := testDB(t)
		user := newTestUser("gone@example.com")
		repo.Create(user)

		if err := repo.Delete(user.ID); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if _, err := repo.Get(user.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(user.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound on double delete, got %v", err)
		}
	})

	t.Run("List With Filters", func(t *testing.T) {
		repo := testDB(t)
		admin := models.NewUser("admin@example.com", "Anna", "Admina", models.RoleAdmin)
		admin.PasswordHash = "x"
		repo.Create(admin)

		for _, email := range []string{"u1@example.com", "u2@example.com"} {
			repo.Create(newTestUser(email))
		}
		inactive := newTestUser("off@example.com")
		repo.Create(inactive)
		repo.SetActive(inactive.ID, false)

		users, total, err := repo.List(ListCriteria{})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if total != 4 || len(users) != 4 {
			t.Errorf("expected 4 users, got total=%d len=%d", total, len(users))
		}

		_, total, _ = repo.List(ListCriteria{Role: models.RoleAdmin})
		if total != 1 {
			t.Errorf("expected 1 admin, got %d", total)
		}

		active := true
		_, total, _ = repo.List(ListCriteria{Active: &active})
		if total != 3 {
			t.Errorf("expected 3 active users, got %d", total)
		}

		_, total, _ = repo.List(ListCriteria{Search: "u1@"})
		if total != 1 {
			t.Errorf("expected 1 match for search, got %d", total)
		}

		// Numeric search matches the sequence number.
		_, total, _ = repo.List(ListCriteria{Search: "1"})
		if total < 1 {
			t.Errorf("expected sequence search to match, got %d", total)
		}

		// Pagination caps page size.
		page, total, _ := repo.List(ListCriteria{Page: 1, Limit: 2})
		if total != 4 || len(page) != 2 {
			t.Errorf("expected total=4 page of 2, got total=%d len=%d", total, len(page))
		}
	})
}

func TestSessionRepository(t *testing.T) {
	setup := func(t *testing.T) (*SessionRepository, *models.User) {
		users := testDB(t)
		user := newTestUser("sess@example.com")
		if err := users.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		return NewSessionRepository(users.db), user
	}

	t.Run("Create And Get", func(t *testing.T) {
		repo, user := setup(t)
		session := models.NewSession(user.ID, "token-1", 24*time.Hour)

		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := repo.GetByToken("token-1")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if got.UserID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.UserID)
		}
	})

	t.Run("Expired Token", func(t *testing.T) {
		repo, user := setup(t)
		expired := models.NewSession(user.ID, "old-token", -time.Hour)
		repo.Create(expired)

		_, err := repo.GetByToken("old-token")
		if !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("Unknown Token", func(t *testing.T) {
		repo, _ := setup(t)
		if _, err := repo.GetByToken("nope"); !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("Revocation", func(t *testing.T) {
		repo, user := setup(t)
		for _, tok := range []string{"t1", "t2"} {
			repo.Create(models.NewSession(user.ID, tok, time.Hour))
		}

		sessions, err := repo.ListByUser(user.ID)
		if err != nil || len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d (%v)", len(sessions), err)
		}

		if err := repo.Delete(sessions[0].ID); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}
		if err := repo.DeleteByUser(user.ID); err != nil {
			t.Fatalf("failed to revoke sessions: %v", err)
		}

		sessions, _ = repo.ListByUser(user.ID)
		if len(sessions) != 0 {
			t.Errorf("expected no sessions after revocation, got %d", len(sessions))
		}
	})

	t.Run("Cleanup Expired", func(t *testing.T) {
		repo, user := setup(t)
		repo.Create(models.NewSession(user.ID, "live", time.Hour))
		repo.Create(models.NewSession(user.ID, "dead", -time.Hour))

		n, err := repo.DeleteExpired()
		if err != nil {
			t.Fatalf("failed to cleanup: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 expired session removed, got %d", n)
		}
	})

	t.Run("Logout Idempotent", func(t *testing.T) {
		repo, _ := setup(t)
		if err := repo.DeleteByToken("never-existed"); err != nil {
			t.Errorf("expected nil for unknown token, got %v", err)
		}
	})
}
