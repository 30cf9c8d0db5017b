package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContext_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want bool
	}{
		{
			name: "empty context",
			ctx:  Context{},
			want: true,
		},
		{
			name: "with tieba only",
			ctx:  Context{TiebaID: 3},
			want: false,
		},
		{
			name: "with conversation only",
			ctx:  Context{ConversationID: 9},
			want: false,
		},
		{
			name: "with both",
			ctx:  Context{TiebaID: 3, ConversationID: 9},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContext_SetAndClear(t *testing.T) {
	ctx := &Context{}

	ctx.SetTieba(5, "golang")
	if !ctx.HasTieba() {
		t.Fatal("expected tieba to be set")
	}
	if ctx.TiebaName != "golang" {
		t.Errorf("TiebaName = %q, want %q", ctx.TiebaName, "golang")
	}

	ctx.SetConversation(7, "alice")
	if !ctx.HasConversation() {
		t.Fatal("expected conversation to be set")
	}

	ctx.Clear()
	if !ctx.IsEmpty() {
		t.Error("expected empty context after Clear")
	}
}

func TestContext_String(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want string
	}{
		{
			name: "empty",
			ctx:  Context{},
			want: "(no context set)",
		},
		{
			name: "tieba with name",
			ctx:  Context{TiebaID: 5, TiebaName: "golang"},
			want: "tieba:golang",
		},
		{
			name: "tieba without name",
			ctx:  Context{TiebaID: 5},
			want: "tieba:#5",
		},
		{
			name: "both",
			ctx:  Context{TiebaID: 5, TiebaName: "golang", ConversationID: 9, PeerName: "alice"},
			want: "tieba:golang chat:alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ctx.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.yaml")
	store := NewContextStore(path)

	ctx := &Context{}
	ctx.SetTieba(5, "golang")
	ctx.SetConversation(9, "alice")

	if err := store.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.TiebaID != 5 || loaded.TiebaName != "golang" {
		t.Errorf("loaded tieba = %d/%q, want 5/golang", loaded.TiebaID, loaded.TiebaName)
	}
	if loaded.ConversationID != 9 || loaded.PeerName != "alice" {
		t.Errorf("loaded conversation = %d/%q, want 9/alice", loaded.ConversationID, loaded.PeerName)
	}
}

func TestContextStore_LoadMissingFile(t *testing.T) {
	store := NewContextStore(filepath.Join(t.TempDir(), "nope.yaml"))

	ctx, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ctx.IsEmpty() {
		t.Error("expected empty context for missing file")
	}
}

func TestContextStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.yaml")
	store := NewContextStore(path)

	if err := store.Save(&Context{TiebaID: 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected context file to be removed")
	}

	// Clearing again is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
}
