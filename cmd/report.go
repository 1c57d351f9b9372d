package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/c01000100/plex-digest/filter"
	"github.com/c01000100/plex-digest/mailer"
	"github.com/c01000100/plex-digest/report"
	"github.com/c01000100/plex-digest/tautulli"
)

var (
	pictureType string
	sizeArgs    []int
	days        int
	users       []string
	usersList   string
	ignore      []string
	library     string
	filterExpr  string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build and send the recently-added digest",
	Long: `Query Tautulli for items added to the selected library within the
last N days, assemble the digest, and email it to the resolved
recipients.

Recipient selection:
  --users all            every catalog user except those in --ignore
  --users name ...       catalog users whose username matches a name
  --userslist path       usernames read from a file, one per line
  (neither)              only the static recipients from the config`,
	PreRunE: initializeApp,
	RunE:    runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&pictureType, "type", "t", "poster", "artwork kind to embed (poster or art)")
	reportCmd.Flags().IntSliceVarP(&sizeArgs, "size", "s", nil, "artwork size as height,width (overrides the per-type default)")
	reportCmd.Flags().IntVarP(&days, "days", "d", 0, "time window in days (default from config)")
	reportCmd.Flags().StringSliceVarP(&users, "users", "u", nil, "usernames to email, or 'all'")
	reportCmd.Flags().StringVar(&usersList, "userslist", "", "file with one username per line")
	reportCmd.Flags().StringSliceVarP(&ignore, "ignore", "i", nil, "usernames to skip when --users all")
	reportCmd.Flags().StringVarP(&library, "library", "l", "", "library name to scan (default from config)")
	reportCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", `filter expression applied to each item (e.g. 'isMovie() and lower(Title) contains "heat"')`)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	windowDays := cfg.Report.Days
	if cmd.Flags().Changed("days") {
		windowDays = days
	}
	if windowDays < 1 {
		return fmt.Errorf("days must be at least 1, got %d", windowDays)
	}

	libraryName := cfg.Report.Library
	if library != "" {
		libraryName = library
	}

	kind := report.PictureKind(pictureType)
	if kind != report.PicturePoster && kind != report.PictureArt {
		return fmt.Errorf("invalid picture type %q (must be poster or art)", pictureType)
	}

	height, width, err := resolveSize(kind)
	if err != nil {
		return err
	}

	var itemFilter *filter.Filter
	if filterExpr != "" {
		itemFilter, err = filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	// Resolve the recipient selection once, before any lookup runs
	selection := report.ParseSelection(users, usersList, logger)
	recipients := resolveRecipients(ctx, selection)

	logger.Info().
		Str("library", libraryName).
		Int("days", windowDays).
		Str("mode", selection.Mode.String()).
		Msg("Starting digest run")

	// Resolve the library to its sections
	sections, err := tautulliClient.FindSections(ctx, libraryName)
	if err != nil {
		logger.Warn().Err(err).Str("library", libraryName).Msg("Failed to resolve library sections")
		sections = nil
	}
	if len(sections) == 0 {
		fmt.Printf("No sections matched library %q.\n", libraryName)
	}

	// Refresh media info for matched sections before listing
	for _, sectionID := range sections {
		if err := tautulliClient.RefreshLibraryMediaInfo(ctx, sectionID); err != nil {
			logger.Warn().Err(err).Int("section_id", sectionID).Msg("Failed to refresh library media info")
		}
	}

	window := report.NewWindow(time.Now(), windowDays)

	return report.WithStaging(func(stagingDir string) error {
		selected := report.SelectRecent(ctx, tautulliClient, sections, window, logger)

		assembler := report.NewAssembler(tautulliClient, stagingDir, kind, height, width, logger)
		if itemFilter != nil {
			assembler.SetFilter(itemFilter)
		}

		entries, stats := assembler.BuildAll(ctx, selected.RatingKeys)
		mailer.SortEntries(entries)

		printSummary(selected, stats, len(sections), recipients)

		if len(entries) == 0 && !cfg.Report.SendEmpty {
			fmt.Println("Nothing new to report; skipping email. Set report.send_empty to send anyway.")
			return nil
		}

		dispatcher := mailer.New(cfg.Email, logger)

		if dryRun {
			fmt.Printf("\n[DRY RUN] Would send %q to: %s\n",
				dispatcher.Subject(libraryName, len(entries), windowDays),
				strings.Join(recipients, ", "))
			for _, entry := range entries {
				label := entry.Title
				if entry.EpisodeLabel != "" {
					label = fmt.Sprintf("%s %s", entry.Title, entry.EpisodeLabel)
				}
				fmt.Printf("  - [%s] %s\n", entry.MediaType, label)
			}
			return nil
		}

		if err := dispatcher.Send(entries, recipients, libraryName, windowDays); err != nil {
			return err
		}

		fmt.Printf("Email sent to %d recipient(s).\n", len(recipients))
		return nil
	})
}

// resolveSize picks the artwork dimensions: an explicit --size wins,
// otherwise the per-type default from config.
func resolveSize(kind report.PictureKind) (height, width int, err error) {
	if len(sizeArgs) > 0 {
		if len(sizeArgs) != 2 {
			return 0, 0, fmt.Errorf("size must be exactly two values (height,width), got %d", len(sizeArgs))
		}
		if sizeArgs[0] < 1 || sizeArgs[1] < 1 {
			return 0, 0, fmt.Errorf("size values must be positive")
		}
		return sizeArgs[0], sizeArgs[1], nil
	}

	if kind == report.PictureArt {
		return cfg.Images.Art.Height, cfg.Images.Art.Width, nil
	}
	return cfg.Images.Poster.Height, cfg.Images.Poster.Width, nil
}

// resolveRecipients builds the destination set for a selection. Catalog
// lookup failures degrade to the static config recipients.
func resolveRecipients(ctx context.Context, selection report.Selection) []string {
	var catalogUsers []tautulli.User
	if selection.Mode != report.ModeSelf {
		var err error
		catalogUsers, err = tautulliClient.GetUsers(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to fetch catalog users, continuing with static recipients only")
		}
	}

	return report.ResolveRecipients(selection, catalogUsers, report.ResolveOptions{
		Static:   cfg.Email.To,
		Ignore:   ignore,
		Strategy: report.MatchStrategy(cfg.Matching.Strategy),
	})
}

func printSummary(selected report.RecencyResult, stats report.BuildStats, sectionCount int, recipients []string) {
	fmt.Printf("\nRun summary:\n")
	fmt.Printf("- Sections scanned: %d", sectionCount-selected.SkippedSections)
	if selected.SkippedSections > 0 {
		fmt.Printf(" (%d skipped on errors)", selected.SkippedSections)
	}
	fmt.Println()
	fmt.Printf("- Items in window: %d\n", len(selected.RatingKeys))
	fmt.Printf("- Entries built: %d\n", stats.Built)
	if stats.Skipped > 0 {
		fmt.Printf("- Items skipped on errors: %d\n", stats.Skipped)
	}
	if stats.Filtered > 0 {
		fmt.Printf("- Items excluded by filter: %d\n", stats.Filtered)
	}
	fmt.Printf("- Recipients: %d\n", len(recipients))
}
