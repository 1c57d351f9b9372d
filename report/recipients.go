package report

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/c01000100/plex-digest/tautulli"
)

// Mode selects how the recipient set is built.
type Mode int

const (
	// ModeSelf sends only to the statically configured recipients.
	ModeSelf Mode = iota
	// ModeAll sends to every catalog user not on the ignore list.
	ModeAll
	// ModeExplicit sends to catalog users matching the supplied names.
	ModeExplicit
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeExplicit:
		return "explicit"
	default:
		return "self"
	}
}

// Selection is the recipient selection resolved once from CLI input.
type Selection struct {
	Mode  Mode
	Names []string
}

// MatchStrategy controls how explicit usernames are matched against
// catalog usernames.
type MatchStrategy string

const (
	// MatchSubstring includes a catalog user when the supplied name is a
	// substring of their username. This is deliberate, documented
	// behavior: "alice" matches "alice99".
	MatchSubstring MatchStrategy = "substring"
	// MatchExact requires the usernames to be identical.
	MatchExact MatchStrategy = "exact"
)

// ParseSelection resolves the --users/--userslist surface into a tagged
// Selection before any lookup runs. An empty surface, or the literal
// name "self", selects ModeSelf; the literal single name "all" selects
// ModeAll; anything else is the union of flag names and file lines.
// A missing or unreadable file is not fatal and contributes nothing.
func ParseSelection(users []string, usersFile string, logger zerolog.Logger) Selection {
	if len(users) == 1 && users[0] == "all" {
		return Selection{Mode: ModeAll}
	}

	if len(users) == 1 && users[0] == "self" {
		users = nil
	}

	names := make([]string, 0, len(users))
	seen := make(map[string]bool)
	for _, name := range users {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, name := range readUsernameFile(usersFile, logger) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	if len(names) == 0 {
		return Selection{Mode: ModeSelf}
	}

	return Selection{Mode: ModeExplicit, Names: names}
}

// readUsernameFile reads one username per line. Failures are logged and
// yield an empty list so resolution continues with whatever was
// supplied explicitly.
func readUsernameFile(path string, logger zerolog.Logger) []string {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to read username file, continuing without it")
		return nil
	}

	var names []string
	for _, line := range strings.Split(string(content), "\n") {
		names = append(names, strings.TrimSpace(line))
	}
	return names
}

// ResolveOptions carries the inputs shared by every selection mode.
type ResolveOptions struct {
	// Static recipients from configuration, always included.
	Static []string
	// Ignore lists usernames excluded in ModeAll.
	Ignore []string
	// Strategy controls explicit username matching. Defaults to
	// substring when empty.
	Strategy MatchStrategy
}

// ResolveRecipients builds the deduplicated destination address set for
// a selection. ModeSelf never consults the catalog list; callers may
// pass nil for it.
func ResolveRecipients(sel Selection, catalogUsers []tautulli.User, opts ResolveOptions) []string {
	recipients := make([]string, 0, len(opts.Static))
	seen := make(map[string]bool)

	add := func(email string) {
		if email == "" || seen[email] {
			return
		}
		seen[email] = true
		recipients = append(recipients, email)
	}

	for _, email := range opts.Static {
		add(email)
	}

	switch sel.Mode {
	case ModeAll:
		ignored := make(map[string]bool, len(opts.Ignore))
		for _, name := range opts.Ignore {
			ignored[name] = true
		}
		for _, user := range catalogUsers {
			if ignored[user.Username] {
				continue
			}
			add(user.Email)
		}

	case ModeExplicit:
		for _, user := range catalogUsers {
			for _, name := range sel.Names {
				if matchUsername(name, user.Username, opts.Strategy) {
					add(user.Email)
					break
				}
			}
		}
	}

	return recipients
}

func matchUsername(name, username string, strategy MatchStrategy) bool {
	if strategy == MatchExact {
		return name == username
	}
	return strings.Contains(username, name)
}
