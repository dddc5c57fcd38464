package fantia

import "fanarchive/pkg/config"

// InScope decides whether a post with the given tier marker is archived
// under the configured scope. Pure function, no I/O.
//
// An unrecognized tier marker is excluded under every scope: the crawl
// skips what it cannot classify instead of guessing.
func InScope(tier Tier, scope config.Scope) bool {
	if tier == TierUnknown {
		return false
	}

	switch scope {
	case config.ScopeAll:
		return true
	case config.ScopePaid:
		// Paid covers both locked and unlocked posts: unlock access is only
		// determined at extraction time by whether body text is present.
		return tier.Paid()
	case config.ScopeFree:
		return tier == TierFree
	default:
		return false
	}
}
