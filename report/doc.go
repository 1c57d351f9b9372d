// Package report implements the digest pipeline core: the recency
// window and filter that decide which items qualify as recently added,
// the recipient resolver that decides who receives the report, and the
// assembler that turns qualifying items into renderable entries.
//
// # Recency
//
// SelectRecent pages through each section's recently-added listing in
// fixed-size batches and collects the rating keys of items whose
// addition timestamp falls inside the Window. The listing is assumed
// sorted descending by added_at, so paging for a section ends early
// once a whole batch falls below the window.
//
// # Recipients
//
// Recipient selection is resolved once from the CLI surface into a
// tagged Selection (self, all, or explicit names) before any catalog
// lookup runs. Explicit names match catalog usernames by substring
// unless exact matching is configured; this is deliberate, documented
// behavior.
//
// # Assembly
//
// The Assembler fetches each item's metadata, stages its artwork in a
// per-run temporary directory, and renders a per-item HTML fragment.
// Failures skip the item and are counted, never aborting the pass.
package report
