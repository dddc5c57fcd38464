package scraper

import (
	"fanarchive/pkg/fantia"
	"fanarchive/pkg/storage"
)

// PostExtractor fetches and extracts a single post's content.
type PostExtractor interface {
	Extract(postID int) (*fantia.PostContent, error)
}

// ArchiveWriter persists extracted content, skipping already-archived posts.
type ArchiveWriter interface {
	Write(content *fantia.PostContent) (storage.Result, error)
}
