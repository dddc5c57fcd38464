// Package fantia implements the Fantia-facing half of the archiver: the
// authenticated session client, the post-index paginator, the scope filter
// and the post extractor, together with the error taxonomy shared by all of
// them.
//
// Listing pages are scraped HTML (goquery selectors over the post index
// markup); post details come from the JSON post API. Both go through the
// same Client so the inter-request pacing holds platform-wide.
package fantia
