package tautulli

import (
	"fmt"
	"strconv"
	"time"
)

// RecentItem is one entry from the get_recently_added listing.
// Tautulli serializes most scalar fields as strings.
type RecentItem struct {
	RatingKey string `json:"rating_key"`
	AddedAt   string `json:"added_at"`
	Title     string `json:"title"`
	MediaType string `json:"media_type"`
}

// AddedAtUnix returns the addition timestamp as unix seconds.
func (r *RecentItem) AddedAtUnix() (int64, error) {
	ts, err := strconv.ParseInt(r.AddedAt, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid added_at %q: %w", r.AddedAt, err)
	}
	return ts, nil
}

// LibrarySection is one row of the get_libraries_table listing.
type LibrarySection struct {
	SectionID   int    `json:"section_id"`
	SectionName string `json:"section_name"`
}

// User is one entry from the get_users listing.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Metadata is the denormalized per-item record from get_metadata.
type Metadata struct {
	RatingKey        string   `json:"rating_key"`
	ParentRatingKey  string   `json:"parent_rating_key"`
	Title            string   `json:"title"`
	GrandparentTitle string   `json:"grandparent_title"`
	MediaType        string   `json:"media_type"`
	MediaIndex       string   `json:"media_index"`
	ParentMediaIndex string   `json:"parent_media_index"`
	Studio           string   `json:"studio"`
	ContentRating    string   `json:"content_rating"`
	ReleaseDate      string   `json:"originally_available_at"`
	Duration         string   `json:"duration"`
	AddedAt          string   `json:"added_at"`
	FileSize         string   `json:"file_size"`
	Art              string   `json:"art"`
	Summary          string   `json:"summary"`
	Actors           []string `json:"actors"`
}

// IsMovie reports whether the item should be treated as a movie rather
// than an episode. Items with no grandparent title fall into the movie
// branch even when media_type says otherwise, matching how the catalog
// reports standalone content.
func (m *Metadata) IsMovie() bool {
	return m.GrandparentTitle == "" || m.MediaType == "movie"
}

// EpisodeLabel renders the sNNeNN label for episodes, e.g. "s02e05".
func (m *Metadata) EpisodeLabel() string {
	season, _ := strconv.Atoi(m.ParentMediaIndex)
	episode, _ := strconv.Atoi(m.MediaIndex)
	return fmt.Sprintf("s%02de%02d", season, episode)
}

// DurationMinutes returns the runtime in whole minutes. The catalog
// reports duration in milliseconds.
func (m *Metadata) DurationMinutes() (int, error) {
	ms, err := strconv.Atoi(m.Duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", m.Duration, err)
	}
	return ms / 60000, nil
}

// AddedAtTime returns the addition timestamp, or the zero time when the
// field is missing or malformed.
func (m *Metadata) AddedAtTime() time.Time {
	ts, err := strconv.ParseInt(m.AddedAt, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// recentlyAddedResponse wraps the get_recently_added payload.
type recentlyAddedResponse struct {
	Response struct {
		Result  string `json:"result"`
		Message string `json:"message"`
		Data    struct {
			RecentlyAdded []RecentItem `json:"recently_added"`
		} `json:"data"`
	} `json:"response"`
}

// metadataResponse wraps the get_metadata payload.
type metadataResponse struct {
	Response struct {
		Result  string `json:"result"`
		Message string `json:"message"`
		Data    struct {
			Metadata Metadata `json:"metadata"`
		} `json:"data"`
	} `json:"response"`
}

// librariesResponse wraps the get_libraries_table payload.
type librariesResponse struct {
	Response struct {
		Result  string `json:"result"`
		Message string `json:"message"`
		Data    struct {
			Data []LibrarySection `json:"data"`
		} `json:"data"`
	} `json:"response"`
}

// usersResponse wraps the get_users payload.
type usersResponse struct {
	Response struct {
		Result  string `json:"result"`
		Message string `json:"message"`
		Data    []User `json:"data"`
	} `json:"response"`
}

// serverInfoResponse wraps the get_server_info payload.
type serverInfoResponse struct {
	Response struct {
		Result  string `json:"result"`
		Message string `json:"message"`
	} `json:"response"`
}
