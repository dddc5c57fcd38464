package fantia

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fanarchive/pkg/logger"
)

// Listing markup conventions. Fantia renders each post index entry as a
// link block inside a post module; the tier badge and lock state sit on the
// same card.
const (
	postEntrySelector   = "div.module.post a.link-block"
	postTitleSelector   = "h3.post-title"
	tierLabelSelector   = ".post-labels .label"
	lockedThumbSelector = ".locked-thumb"
	frontendParamsID    = "script#frontend-params"
)

var loggedOutMarker = []byte(`"is_logged_in": false`)

// Paginator walks a fan club's paginated post index lazily, yielding post
// summaries until the listing is exhausted. The sequence is finite and
// non-restartable: a page with no entries, or the first repeated post id
// (guarding against pagination loops), ends it.
type Paginator struct {
	fetcher Fetcher
	target  Target
	logger  logger.Logger

	page    int
	visited int
	seen    map[int]struct{}
	buf     []PostSummary
	done    bool
}

// NewPaginator creates a paginator for a fan club target.
func NewPaginator(fetcher Fetcher, target Target, log logger.Logger) *Paginator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Paginator{
		fetcher: fetcher,
		target:  target,
		logger:  log.WithField("fanclub", target.FanclubID),
		page:    1,
		seen:    make(map[int]struct{}),
	}
}

// Next returns the next post summary, or (nil, nil) when the listing is
// exhausted. An auth failure ends the sequence and is returned as an error
// so callers can distinguish it from end-of-pagination.
func (p *Paginator) Next() (*PostSummary, error) {
	for len(p.buf) == 0 && !p.done {
		if err := p.fetchPage(); err != nil {
			p.done = true
			return nil, err
		}
	}

	if len(p.buf) == 0 {
		return nil, nil
	}

	summary := p.buf[0]
	p.buf = p.buf[1:]
	return &summary, nil
}

// Pages returns the number of listing pages fetched so far.
func (p *Paginator) Pages() int {
	return p.visited
}

func (p *Paginator) fetchPage() error {
	pageURL := p.target.PageURL(p.fetcher.BaseURL(), p.page)
	p.logger.DebugWithFields("scanning listing page", map[string]interface{}{
		"page": p.page,
		"url":  pageURL,
	})

	body, err := p.fetcher.GetHTML(pageURL)
	if err != nil {
		return err
	}
	p.visited++

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse listing page %d: %v", p.page, err),
		}
	}

	if loggedOut(doc) {
		p.logger.Warn("listing page reports logged-out session")
		return &Error{
			Type:    ErrorTypeAuth,
			Message: "session invalid: listing page reports logged-out state",
		}
	}

	entries := doc.Find(postEntrySelector)
	if entries.Length() == 0 {
		p.logger.DebugWithFields("no post entries, listing exhausted", map[string]interface{}{
			"page": p.page,
		})
		p.done = true
		return nil
	}

	parsed := 0
	entries.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		summary, ok := parseEntry(sel)
		if !ok {
			return true
		}
		parsed++
		if _, dup := p.seen[summary.ID]; dup {
			// Repeated id means the site is serving the same page again.
			p.logger.WarnWithFields("repeated post id, stopping pagination", map[string]interface{}{
				"page":    p.page,
				"post_id": summary.ID,
			})
			p.done = true
			return false
		}
		p.seen[summary.ID] = struct{}{}
		p.buf = append(p.buf, summary)
		return true
	})

	// Entries that all fail to parse would otherwise advance pages forever
	// without the cycle guard ever seeing an id.
	if parsed == 0 && !p.done {
		p.logger.WarnWithFields("no parseable entries on listing page, stopping pagination", map[string]interface{}{
			"page": p.page,
		})
		p.done = true
		return nil
	}

	p.page++
	return nil
}

// loggedOut checks the frontend-params JSON embedded in every Fantia page.
func loggedOut(doc *goquery.Document) bool {
	params := doc.Find(frontendParamsID)
	if params.Length() == 0 {
		return false
	}
	return bytes.Contains([]byte(params.Text()), loggedOutMarker)
}

// parseEntry extracts a post summary from one listing card.
func parseEntry(sel *goquery.Selection) (PostSummary, bool) {
	href, ok := sel.Attr("href")
	if !ok || !strings.Contains(href, "/posts/") {
		return PostSummary{}, false
	}

	segs := strings.Split(strings.Trim(href, "/"), "/")
	id, err := strconv.Atoi(segs[len(segs)-1])
	if err != nil {
		return PostSummary{}, false
	}

	title := strings.TrimSpace(sel.Find(postTitleSelector).First().Text())

	label := strings.TrimSpace(sel.Find(tierLabelSelector).First().Text())
	locked := sel.Find(lockedThumbSelector).Length() > 0

	return PostSummary{
		ID:    id,
		Title: title,
		Tier:  classifyTier(label, locked),
	}, true
}

// classifyTier maps a listing card's price badge and lock state to a tier
// marker. Badges read either "無料" for free posts or a plan price such as
// "500円" for paid ones.
func classifyTier(label string, locked bool) Tier {
	switch {
	case label == "":
		return TierUnknown
	case strings.Contains(label, "無料"):
		return TierFree
	case strings.Contains(label, "円") || strings.Contains(label, "プラン"):
		if locked {
			return TierPaidLocked
		}
		return TierPaidUnlocked
	default:
		return TierUnknown
	}
}
