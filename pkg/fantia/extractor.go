package fantia

import (
	"fmt"
	"strings"

	"fanarchive/pkg/logger"
)

// Extractor fetches a post's detail data from the post API and extracts its
// textual content.
type Extractor struct {
	fetcher Fetcher
	logger  logger.Logger
}

// NewExtractor creates an extractor on top of the session client.
func NewExtractor(fetcher Fetcher, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{fetcher: fetcher, logger: log}
}

// Extract fetches post postID and returns its content. A successful fetch
// without the expected structure yields an ExtractionError: MissingElement
// when the post object is absent, EmptyBody when no text exists (typically
// a paid post the viewer has not unlocked).
func (e *Extractor) Extract(postID int) (*PostContent, error) {
	apiURL := PostAPIURL(e.fetcher.BaseURL(), postID)
	e.logger.DebugWithFields("fetching post detail", map[string]interface{}{
		"post_id": postID,
		"url":     apiURL,
	})

	var resp postResponse
	if err := e.fetcher.GetJSON(apiURL, &resp); err != nil {
		return nil, err
	}

	post := resp.Post
	if post == nil {
		return nil, &ExtractionError{PostID: postID, Reason: ReasonMissingElement}
	}

	title := post.Title
	if title == "" {
		title = fmt.Sprintf("No Title %d", postID)
	}

	blocks := bodyBlocks(post)
	if len(blocks) == 0 {
		e.logger.WarnWithFields("post has no text content", map[string]interface{}{
			"post_id": postID,
			"title":   title,
		})
		return nil, &ExtractionError{PostID: postID, Reason: ReasonEmptyBody}
	}

	return &PostContent{
		ID:          postID,
		Title:       title,
		FanclubName: fanclubName(post),
		Blocks:      blocks,
		Paid:        isPaid(post),
	}, nil
}

// bodyBlocks collects the post's text in document order. Posts store their
// text either as per-section comments, or as a single comment, or as a blog
// comment, depending on the post type.
func bodyBlocks(post *postData) []string {
	var blocks []string
	for _, c := range post.Contents {
		if text := strings.TrimSpace(c.Comment); text != "" {
			blocks = append(blocks, c.Comment)
		}
	}
	if len(blocks) > 0 {
		return blocks
	}

	if strings.TrimSpace(post.Comment) != "" {
		return []string{post.Comment}
	}
	if strings.TrimSpace(post.BlogComment) != "" {
		return []string{post.BlogComment}
	}
	return nil
}

func fanclubName(post *postData) string {
	if post.Fanclub != nil && post.Fanclub.FanclubNameWithCreatorName != "" {
		return post.Fanclub.FanclubNameWithCreatorName
	}
	if post.Fanclub != nil {
		return fmt.Sprintf("fanclub_%d", post.Fanclub.ID)
	}
	return "fanclub_unknown"
}

// isPaid reports whether any section of the post belongs to a paid plan.
func isPaid(post *postData) bool {
	for _, c := range post.Contents {
		if c.Plan != nil && c.Plan.Price > 0 {
			return true
		}
	}
	return false
}
