// Package ratelimit provides the inter-request pacer used by the Fantia
// session client. Unlike a token bucket, the pacer guarantees a fixed
// minimum gap between the end of one request and the start of the next,
// which is the load-management contract the crawl relies on. The clock is
// injectable so pacing is unit-testable without real sleeps.
package ratelimit
