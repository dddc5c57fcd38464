package fantia

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the base URL for Fantia.
	BaseURL = "https://fantia.jp"

	// PostAPIEndpoint is the endpoint pattern for a post's detail data.
	PostAPIEndpoint = "/api/v1/posts/%d"
)

// Target identifies one configured crawl source: either a fan club's post
// index (FanclubID set) or a single post (PostID set).
type Target struct {
	// URL is the source line as configured, normalized.
	URL string

	FanclubID int
	PostID    int

	// Tag is the optional tag filter carried by a fan club index URL.
	Tag string
}

// ParseTarget parses a configured fantia.jp URL into a Target. Supported
// shapes are /fanclubs/{id}, /fanclubs/{id}/posts (with an optional tag
// query parameter) and /posts/{id}.
func ParseTarget(raw string) (Target, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Target{}, fmt.Errorf("invalid target URL %q: %w", raw, err)
	}
	if u.Host != "" && u.Host != "fantia.jp" && u.Host != "www.fantia.jp" {
		return Target{}, fmt.Errorf("unsupported host %q in target %q", u.Host, raw)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(segs) >= 2 && segs[0] == "fanclubs":
		id, err := strconv.Atoi(segs[1])
		if err != nil {
			return Target{}, fmt.Errorf("invalid fanclub id in target %q", raw)
		}
		return Target{
			URL:       raw,
			FanclubID: id,
			Tag:       u.Query().Get("tag"),
		}, nil

	case len(segs) == 2 && segs[0] == "posts":
		id, err := strconv.Atoi(segs[1])
		if err != nil {
			return Target{}, fmt.Errorf("invalid post id in target %q", raw)
		}
		return Target{URL: raw, PostID: id}, nil
	}

	return Target{}, fmt.Errorf("unsupported target URL shape %q", raw)
}

// PageURL builds the listing URL for the given page of a fan club target.
func (t Target) PageURL(base string, page int) string {
	if base == "" {
		base = BaseURL
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if t.Tag != "" {
		params.Set("tag", t.Tag)
	}
	return fmt.Sprintf("%s/fanclubs/%d/posts?%s", base, t.FanclubID, params.Encode())
}

// PostAPIURL builds the detail API URL for a post.
func PostAPIURL(base string, postID int) string {
	if base == "" {
		base = BaseURL
	}
	return base + fmt.Sprintf(PostAPIEndpoint, postID)
}

// PostPageURL builds the public page URL for a post, used in archived files.
func PostPageURL(postID int) string {
	return fmt.Sprintf("%s/posts/%d", BaseURL, postID)
}
