package agents_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Mark0025/peterental/internal/agents"
)

var idPattern = regexp.MustCompile(`^agent_user_1_\d+$`)

func TestRepository_InsertAssignsIDs(t *testing.T) {
	repo := agents.NewRepository(newStore(t))
	ctx := context.Background()

	cfg := agents.AgentConfig{
		Name:      "Agent",
		UserID:    "user_1",
		Variables: []agents.Variable{{Name: "email", Type: agents.TypeEmail}},
		Functions: []agents.Function{{Name: "book", Enabled: true}},
	}

	first, err := repo.Insert(ctx, cfg)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	second, err := repo.Insert(ctx, cfg)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	if !idPattern.MatchString(first.ID) || !idPattern.MatchString(second.ID) {
		t.Errorf("ids = %q, %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Errorf("duplicate id %q", first.ID)
	}
	if first.Variables[0].ID == "" || first.Functions[0].ID == "" {
		t.Error("nested ids not assigned")
	}
	if first.SyncStatus != agents.StatusDraft {
		t.Errorf("SyncStatus = %q, want draft", first.SyncStatus)
	}
	if first.CreatedAt.IsZero() || !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Errorf("timestamps = %v, %v", first.CreatedAt, first.UpdatedAt)
	}
}

func TestRepository_ListByUser(t *testing.T) {
	repo := agents.NewRepository(newStore(t))
	ctx := context.Background()

	for _, u := range []string{"alice", "bob", "alice"} {
		if _, err := repo.Insert(ctx, agents.AgentConfig{Name: "a", UserID: u}); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}

	tests := []struct {
		user string
		want int
	}{
		{"alice", 2},
		{"bob", 1},
		{"carol", 0},
		{"", 3},
	}
	for _, tt := range tests {
		got, err := repo.List(ctx, tt.user)
		if err != nil {
			t.Fatalf("List(%q) failed: %v", tt.user, err)
		}
		if len(got) != tt.want {
			t.Errorf("List(%q) returned %d, want %d", tt.user, len(got), tt.want)
		}
		for _, c := range got {
			if tt.user != "" && c.UserID != tt.user {
				t.Errorf("List(%q) returned config owned by %q", tt.user, c.UserID)
			}
		}
	}
}

func TestRepository_EmptyStore(t *testing.T) {
	repo := agents.NewRepository(newStore(t))

	got, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}

	if _, err := repo.Find(context.Background(), "agent_x_1"); !errors.Is(err, agents.ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
}

func TestRepository_ModifyAndRemove(t *testing.T) {
	repo := agents.NewRepository(newStore(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, agents.AgentConfig{Name: "before", UserID: "u"})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	boom := errors.New("boom")
	if _, err := repo.Modify(ctx, created.ID, func(c *agents.AgentConfig) error {
		c.Name = "discarded"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("Modify() error = %v, want boom", err)
	}

	updated, err := repo.Modify(ctx, created.ID, func(c *agents.AgentConfig) error {
		c.Name = "after"
		c.ID = "changed"
		return nil
	})
	if err != nil {
		t.Fatalf("Modify() failed: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "after" {
		t.Errorf("Modify() = %+v", updated)
	}

	found, err := repo.Find(ctx, created.ID)
	if err != nil || found.Name != "after" {
		t.Fatalf("Find() = %+v, %v", found, err)
	}

	if err := repo.Remove(ctx, created.ID); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if err := repo.Remove(ctx, created.ID); !errors.Is(err, agents.ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}

func TestRepository_CurrentUser(t *testing.T) {
	repo := agents.NewRepository(newStore(t))
	ctx := context.Background()

	if u, err := repo.CurrentUser(ctx); err != nil || u != "" {
		t.Fatalf("CurrentUser() = %q, %v", u, err)
	}

	if err := repo.SetCurrentUser(ctx, "alice"); err != nil {
		t.Fatalf("SetCurrentUser() failed: %v", err)
	}
	if u, _ := repo.CurrentUser(ctx); u != "alice" {
		t.Errorf("CurrentUser() = %q, want alice", u)
	}

	if err := repo.SetCurrentUser(ctx, ""); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if u, _ := repo.CurrentUser(ctx); u != "" {
		t.Errorf("CurrentUser() after clear = %q", u)
	}
}

func TestRepository_CorruptStore(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.Store(ctx, agents.ConfigsKey, []byte("{not json")); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}

	repo := agents.NewRepository(store)
	if _, err := repo.List(ctx, ""); !errors.Is(err, agents.ErrCorruptStore) {
		t.Errorf("List() error = %v, want ErrCorruptStore", err)
	}
	if _, err := repo.Insert(ctx, agents.AgentConfig{Name: "x", UserID: "u"}); !errors.Is(err, agents.ErrCorruptStore) {
		t.Errorf("Insert() error = %v, want ErrCorruptStore", err)
	}
}
