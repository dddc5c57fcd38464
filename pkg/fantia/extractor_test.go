package fantia

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fanarchive/pkg/logger"
)

func TestExtractorJoinsSectionComments(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = postJSON(
		1001, "A Story", "Club (Author)", 0, "First section.", "", "Second section.",
	)

	e := NewExtractor(fetcher, logger.NewTestLogger())
	content, err := e.Extract(1001)
	require.NoError(t, err)

	assert.Equal(t, 1001, content.ID)
	assert.Equal(t, "A Story", content.Title)
	assert.Equal(t, "Club (Author)", content.FanclubName)
	assert.Equal(t, []string{"First section.", "Second section."}, content.Blocks)
	assert.Equal(t, "First section.\n\nSecond section.", content.Body())
	assert.False(t, content.Paid)
}

func TestExtractorFallsBackToPostComment(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = `{"post": {
		"id": 1001, "title": "A Story", "comment": "Whole post text."
	}}`

	e := NewExtractor(fetcher, logger.NewTestLogger())
	content, err := e.Extract(1001)
	require.NoError(t, err)
	assert.Equal(t, []string{"Whole post text."}, content.Blocks)
}

func TestExtractorFallsBackToBlogComment(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = `{"post": {
		"id": 1001, "title": "A Story", "blog_comment": "Blog text."
	}}`

	e := NewExtractor(fetcher, logger.NewTestLogger())
	content, err := e.Extract(1001)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blog text."}, content.Blocks)
}

func TestExtractorDefaultsMissingTitle(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = postJSON(
		1001, "", "Club (Author)", 0, "Text.",
	)

	e := NewExtractor(fetcher, logger.NewTestLogger())
	content, err := e.Extract(1001)
	require.NoError(t, err)
	assert.Equal(t, "No Title 1001", content.Title)
}

func TestExtractorReportsEmptyBody(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = postJSON(
		1001, "Locked Story", "Club (Author)", 500, "", "   ",
	)

	e := NewExtractor(fetcher, logger.NewTestLogger())
	_, err := e.Extract(1001)
	require.Error(t, err)

	extractionErr, ok := IsExtractionError(err)
	require.True(t, ok)
	assert.Equal(t, 1001, extractionErr.PostID)
	assert.Equal(t, ReasonEmptyBody, extractionErr.Reason)
}

func TestExtractorReportsMissingPost(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = `{"post": null}`

	e := NewExtractor(fetcher, logger.NewTestLogger())
	_, err := e.Extract(1001)
	require.Error(t, err)

	extractionErr, ok := IsExtractionError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonMissingElement, extractionErr.Reason)
}

func TestExtractorMarksPaidPosts(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = postJSON(
		1001, "Paid Story", "Club (Author)", 500, "Unlocked text.",
	)

	e := NewExtractor(fetcher, logger.NewTestLogger())
	content, err := e.Extract(1001)
	require.NoError(t, err)
	assert.True(t, content.Paid)
}

func TestExtractorFanclubNameFallback(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1001)] = `{"post": {
		"id": 1001, "title": "A Story", "comment": "Text.",
		"fanclub": {"id": 42}
	}}`

	e := NewExtractor(fetcher, logger.NewTestLogger())
	content, err := e.Extract(1001)
	require.NoError(t, err)
	assert.Equal(t, "fanclub_42", content.FanclubName)

	fetcher.posts[PostAPIURL(fetcher.BaseURL(), 1002)] = `{"post": {
		"id": 1002, "title": "Orphan", "comment": "Text."
	}}`
	content, err = e.Extract(1002)
	require.NoError(t, err)
	assert.Equal(t, "fanclub_unknown", content.FanclubName)
}

func TestExtractorPropagatesFetchErrors(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs[PostAPIURL(fetcher.BaseURL(), 1001)] = &Error{
		Type: ErrorTypeServer, Message: "server returned status 503", Code: 503,
	}

	e := NewExtractor(fetcher, logger.NewTestLogger())
	_, err := e.Extract(1001)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorTypeServer, apiErr.Type)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d", 503))
}
