// Package storage writes extracted post text to the local archive layout
// root/<fanclub>/<title>.txt. The existence check on the destination file is
// the tool's entire resume mechanism: re-running a crawl skips everything a
// previous run archived and touches nothing it wrote.
package storage
