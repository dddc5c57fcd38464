// Package scraper contains the crawl orchestrator. Each target moves
// through Pending → Paginating → (Filtering ↔ Extracting ↔ Writing) →
// Done | Failed; per-post failures become counters, auth and filesystem
// failures abort the run. Execution is strictly serial: the session
// client's pacer is the only throttle and request ordering is the listing
// order.
package scraper
