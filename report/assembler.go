package report

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/c01000100/plex-digest/filter"
)

// PictureKind selects which artwork variant is embedded per item.
type PictureKind string

const (
	PicturePoster PictureKind = "poster"
	PictureArt    PictureKind = "art"
)

// ErrFiltered marks an item excluded by the configured filter
// expression. Not a failure; callers count it separately.
var ErrFiltered = errors.New("item excluded by filter")

// Entry is one assembled digest item, sufficient for the dispatcher to
// sort and render without re-fetching anything.
type Entry struct {
	Fragment     template.HTML
	AltText      string
	ImagePath    string
	ImageCID     string
	MediaType    string
	Title        string
	EpisodeLabel string
}

// BuildStats summarizes one assembly pass, surfaced in the run summary.
type BuildStats struct {
	Built    int
	Skipped  int
	Filtered int
}

var movieTmpl = template.Must(template.New("movie").Parse(
	"<dt></dt> <dd> <table> <tr> <td>" +
		"{{if .HasImage}} <img src='cid:{{.CID}}' alt='Movie {{.Alt}}' width='{{.Width}}'>{{end}} </td>" +
		" <td class='info'><h2>{{.Title}}</h2><br>" +
		" <br>{{.Summary}}<br>" +
		" <br>({{.Duration}} min) released {{.ReleaseDate}}<br>" +
		" <br>[{{.ContentRating}}] from {{.Studio}}<br>" +
		" <br>Starring: {{.Cast}}" +
		" </td> </tr> </table> </dd> <br>"))

var episodeTmpl = template.Must(template.New("episode").Parse(
	"<dt></dt> <dd> <table> <tr> <td>" +
		"{{if .HasImage}} <img src='cid:{{.CID}}' alt='Episode {{.Alt}}' width='{{.Width}}'>{{end}} </td>" +
		" <td class='info'><h2>{{.Show}}</h2><br>" +
		" <h3>{{.Episode}} - {{.Title}}</h3><br>" +
		" <br>{{.Summary}}<br>" +
		" <br>({{.Duration}} min) aired {{.ReleaseDate}}<br>" +
		" <br>[{{.ContentRating}}] from {{.Studio}}" +
		" </td> </tr> </table> </dd> <br>"))

type fragmentData struct {
	HasImage      bool
	CID           string
	Alt           string
	Width         int
	Title         string
	Show          string
	Episode       string
	Summary       string
	Duration      int
	ReleaseDate   string
	ContentRating string
	Studio        string
	Cast          string
}

// Assembler builds report entries from rating keys.
type Assembler struct {
	source     MetadataSource
	filter     *filter.Filter
	httpClient *http.Client
	stagingDir string
	kind       PictureKind
	height     int
	width      int
	logger     zerolog.Logger
}

// NewAssembler creates an assembler staging images under stagingDir.
func NewAssembler(source MetadataSource, stagingDir string, kind PictureKind, height, width int, logger zerolog.Logger) *Assembler {
	return &Assembler{
		source:     source,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		stagingDir: stagingDir,
		kind:       kind,
		height:     height,
		width:      width,
		logger:     logger,
	}
}

// SetFilter installs an optional item filter applied after metadata
// fetch and before assembly.
func (a *Assembler) SetFilter(f *filter.Filter) {
	a.filter = f
}

// Build assembles the entry for one rating key. Returns ErrFiltered
// when the item does not match the configured filter expression.
func (a *Assembler) Build(ctx context.Context, ratingKey string) (*Entry, error) {
	meta, err := a.source.GetMetadata(ctx, ratingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %s: %w", ratingKey, err)
	}

	if a.filter != nil {
		matched, err := a.filter.Match(meta)
		if err != nil {
			return nil, err
		}
		if !matched {
			return nil, ErrFiltered
		}
	}

	duration, err := meta.DurationMinutes()
	if err != nil {
		a.logger.Warn().Err(err).Str("rating_key", ratingKey).Msg("Malformed duration, reporting zero minutes")
	}

	data := fragmentData{
		Alt:           meta.RatingKey,
		Width:         a.width,
		Summary:       meta.Summary,
		Duration:      duration,
		ReleaseDate:   meta.ReleaseDate,
		ContentRating: meta.ContentRating,
		Studio:        meta.Studio,
		Cast:          strings.Join(meta.Actors, ", "),
	}

	imagePath := filepath.Join(a.stagingDir, ratingKey+".jpg")
	if err := a.downloadImage(ctx, a.imageURL(meta.Art), imagePath); err != nil {
		// The entry still reports in text; only the inline image is lost.
		a.logger.Warn().Err(err).Str("rating_key", ratingKey).Msg("Failed to download artwork, sending entry without image")
		imagePath = ""
	} else {
		data.HasImage = true
		data.CID = uuid.NewString()
	}

	entry := Entry{
		AltText:   meta.RatingKey,
		ImagePath: imagePath,
		ImageCID:  data.CID,
		MediaType: meta.MediaType,
	}

	var buf strings.Builder
	if meta.IsMovie() {
		entry.Title = meta.Title
		data.Title = meta.Title
		if err := movieTmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to render movie fragment: %w", err)
		}
	} else {
		entry.Title = meta.GrandparentTitle
		entry.EpisodeLabel = meta.EpisodeLabel()
		data.Show = meta.GrandparentTitle
		data.Episode = entry.EpisodeLabel
		data.Title = meta.Title
		if err := episodeTmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to render episode fragment: %w", err)
		}
	}
	entry.Fragment = template.HTML(buf.String())

	return &entry, nil
}

// BuildAll assembles entries for every rating key. A failing item is
// skipped with a warning; it never aborts the rest of the pass.
func (a *Assembler) BuildAll(ctx context.Context, ratingKeys []string) ([]Entry, BuildStats) {
	var entries []Entry
	var stats BuildStats

	for _, ratingKey := range ratingKeys {
		entry, err := a.Build(ctx, ratingKey)
		switch {
		case errors.Is(err, ErrFiltered):
			stats.Filtered++
		case err != nil:
			a.logger.Warn().Err(err).Str("rating_key", ratingKey).Msg("Skipping item")
			stats.Skipped++
		default:
			entries = append(entries, *entry)
			stats.Built++
		}
	}

	return entries, stats
}

// imageURL resolves the artwork URL for the configured picture kind.
// The proxy returns the art path; poster requests substitute the
// encoded path segment, matching how the catalog encodes both variants.
func (a *Assembler) imageURL(imageRef string) string {
	u := a.source.ImageProxyURL(imageRef) + ".jpeg"
	if a.kind == PicturePoster {
		u = strings.ReplaceAll(u, "%2Fart%", "%2Fposter%")
	}
	return u
}

func (a *Assembler) downloadImage(ctx context.Context, imageURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}
