package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/c01000100/plex-digest/tautulli"
)

func TestParseSelection(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name      string
		users     []string
		wantMode  Mode
		wantNames []string
	}{
		{
			name:     "empty surface is self",
			users:    nil,
			wantMode: ModeSelf,
		},
		{
			name:     "literal self",
			users:    []string{"self"},
			wantMode: ModeSelf,
		},
		{
			name:     "literal all",
			users:    []string{"all"},
			wantMode: ModeAll,
		},
		{
			name:      "explicit names",
			users:     []string{"alice", "bob"},
			wantMode:  ModeExplicit,
			wantNames: []string{"alice", "bob"},
		},
		{
			name:      "duplicate names collapse",
			users:     []string{"alice", "alice"},
			wantMode:  ModeExplicit,
			wantNames: []string{"alice"},
		},
		{
			name:      "all among other names is a plain name",
			users:     []string{"all", "bob"},
			wantMode:  ModeExplicit,
			wantNames: []string{"all", "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := ParseSelection(tt.users, "", logger)
			assert.Equal(t, tt.wantMode, sel.Mode)
			assert.Equal(t, tt.wantNames, sel.Names)
		})
	}
}

func TestParseSelectionUsernameFile(t *testing.T) {
	logger := zerolog.Nop()

	path := filepath.Join(t.TempDir(), "users.txt")
	err := os.WriteFile(path, []byte("carol\n\ndave\nalice\n"), 0o644)
	assert.NoError(t, err)

	sel := ParseSelection([]string{"alice"}, path, logger)
	assert.Equal(t, ModeExplicit, sel.Mode)
	assert.Equal(t, []string{"alice", "carol", "dave"}, sel.Names)
}

func TestParseSelectionMissingFileIsNotFatal(t *testing.T) {
	logger := zerolog.Nop()

	sel := ParseSelection([]string{"alice"}, "/nonexistent/users.txt", logger)
	assert.Equal(t, ModeExplicit, sel.Mode)
	assert.Equal(t, []string{"alice"}, sel.Names)

	// File alone, and missing: nothing explicit remains, fall back to self
	sel = ParseSelection(nil, "/nonexistent/users.txt", logger)
	assert.Equal(t, ModeSelf, sel.Mode)
}

func TestResolveRecipientsAll(t *testing.T) {
	catalog := []tautulli.User{
		{Username: "alice99", Email: "a@x.com"},
		{Username: "bob", Email: "b@x.com"},
		{Username: "carol", Email: ""},
		{Username: "dave", Email: "a@x.com"}, // duplicate address
		{Username: "ignored", Email: "i@x.com"},
	}

	got := ResolveRecipients(Selection{Mode: ModeAll}, catalog, ResolveOptions{
		Ignore: []string{"ignored"},
	})

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, got)
	assert.NotContains(t, got, "i@x.com")
}

func TestResolveRecipientsExplicitSubstring(t *testing.T) {
	// Substring matching is documented policy: "alice" matches "alice99".
	catalog := []tautulli.User{
		{Username: "alice99", Email: "a@x.com"},
		{Username: "bob", Email: "b@x.com"},
	}

	got := ResolveRecipients(Selection{Mode: ModeExplicit, Names: []string{"alice"}}, catalog, ResolveOptions{
		Strategy: MatchSubstring,
	})
	assert.Equal(t, []string{"a@x.com"}, got)
}

func TestResolveRecipientsExplicitExact(t *testing.T) {
	catalog := []tautulli.User{
		{Username: "alice99", Email: "a@x.com"},
		{Username: "alice", Email: "real@x.com"},
	}

	got := ResolveRecipients(Selection{Mode: ModeExplicit, Names: []string{"alice"}}, catalog, ResolveOptions{
		Strategy: MatchExact,
	})
	assert.Equal(t, []string{"real@x.com"}, got)
}

func TestResolveRecipientsSelf(t *testing.T) {
	got := ResolveRecipients(Selection{Mode: ModeSelf}, nil, ResolveOptions{
		Static: []string{"me@x.com", "me@x.com", "other@x.com"},
	})
	assert.Equal(t, []string{"me@x.com", "other@x.com"}, got)
}

func TestResolveRecipientsStaticAlwaysIncluded(t *testing.T) {
	catalog := []tautulli.User{
		{Username: "bob", Email: "b@x.com"},
	}

	got := ResolveRecipients(Selection{Mode: ModeAll}, catalog, ResolveOptions{
		Static: []string{"me@x.com", "b@x.com"},
	})
	assert.Equal(t, []string{"me@x.com", "b@x.com"}, got)
}
