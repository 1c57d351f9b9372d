package report

import (
	"context"

	"github.com/rs/zerolog"
)

// recentPageSize is the batch size for recently-added pagination.
const recentPageSize = 25

// RecencyResult holds the qualifying rating keys plus the number of
// sections whose pagination aborted on a fetch failure.
type RecencyResult struct {
	RatingKeys      []string
	SkippedSections int
}

// SelectRecent collects the rating keys of items added inside the
// window across the given sections. The listing is paged in batches of
// 25 and assumed sorted descending by added_at; paging for a section
// stops on the first empty batch, or early once a whole batch falls
// below the window since nothing later can qualify.
//
// A fetch failure aborts only that section's pagination; results
// already collected from other sections are retained and the section is
// counted as skipped.
func SelectRecent(ctx context.Context, lister RecentLister, sectionIDs []int, window Window, logger zerolog.Logger) RecencyResult {
	var result RecencyResult

	for _, sectionID := range sectionIDs {
		start := 0
		for {
			items, err := lister.GetRecentlyAdded(ctx, sectionID, start, recentPageSize)
			if err != nil {
				logger.Warn().Err(err).Int("section_id", sectionID).Msg("Failed to fetch recently added page, skipping section")
				result.SkippedSections++
				break
			}

			if len(items) == 0 {
				break
			}

			anyInReach := false
			for i := range items {
				ts, err := items[i].AddedAtUnix()
				if err != nil {
					logger.Warn().Err(err).Str("rating_key", items[i].RatingKey).Msg("Skipping item with malformed timestamp")
					// Keep paging: a bad timestamp says nothing
					// about the rest of the listing.
					anyInReach = true
					continue
				}

				if window.Contains(ts) {
					result.RatingKeys = append(result.RatingKeys, items[i].RatingKey)
				}
				if ts >= window.LastDate {
					anyInReach = true
				}
			}

			if !anyInReach {
				break
			}

			start += recentPageSize
		}
	}

	return result
}
