package mailer

import (
	"html/template"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c01000100/plex-digest/config"
	"github.com/c01000100/plex-digest/report"
)

func entry(mediaType, title, episodeLabel string) report.Entry {
	return report.Entry{
		MediaType:    mediaType,
		Title:        title,
		EpisodeLabel: episodeLabel,
		AltText:      title,
		Fragment:     template.HTML("<dd>" + title + " " + episodeLabel + "</dd>"),
	}
}

func TestSortEntries(t *testing.T) {
	entries := []report.Entry{
		entry("movie", "Zodiac", ""),
		entry("episode", "Some Show", "s02e05"),
		entry("movie", "Heat", ""),
		entry("episode", "Some Show", "s02e01"),
		entry("episode", "Another Show", "s01e01"),
	}

	SortEntries(entries)

	// Grouped by media type, then title, then episode label
	want := []struct {
		title, label string
	}{
		{"Another Show", "s01e01"},
		{"Some Show", "s02e01"},
		{"Some Show", "s02e05"},
		{"Heat", ""},
		{"Zodiac", ""},
	}
	require.Len(t, entries, len(want))
	for i, w := range want {
		assert.Equal(t, w.title, entries[i].Title, "position %d", i)
		assert.Equal(t, w.label, entries[i].EpisodeLabel, "position %d", i)
	}
}

func TestSortEntriesStable(t *testing.T) {
	// Identical sort keys keep their input order
	first := entry("movie", "Heat", "")
	first.AltText = "first"
	second := entry("movie", "Heat", "")
	second.AltText = "second"

	entries := []report.Entry{first, second}
	SortEntries(entries)

	assert.Equal(t, "first", entries[0].AltText)
	assert.Equal(t, "second", entries[1].AltText)
}

func TestRender(t *testing.T) {
	entries := []report.Entry{
		entry("movie", "Heat", ""),
		entry("episode", "Some Show", "s02e05"),
	}

	body, err := Render(entries, "Movies", 7)
	require.NoError(t, err)

	assert.Contains(t, body, "<b>Movies</b>")
	assert.Contains(t, body, "last 7 day(s)")
	assert.Contains(t, body, "<dd>Heat </dd>")
	assert.Contains(t, body, "<dd>Some Show s02e05</dd>")
}

func TestSubject(t *testing.T) {
	m := New(config.EmailConfig{Subject: config.DefaultSubject}, zerolog.Nop())

	assert.Equal(t, "New in Movies on Plex - 3 in 7 day(s)", m.Subject("Movies", 3, 7))
}

func TestSendRequiresRecipients(t *testing.T) {
	m := New(config.EmailConfig{
		Host:        "smtp.example.com",
		Port:        587,
		FromAddress: "plex@example.com",
		Subject:     config.DefaultSubject,
	}, zerolog.Nop())

	err := m.Send([]report.Entry{entry("movie", "Heat", "")}, nil, "Movies", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipients")
}
