package scraper

import (
	"fmt"

	"fanarchive/pkg/config"
	"fanarchive/pkg/fantia"
	"fanarchive/pkg/logger"
	"fanarchive/pkg/storage"
)

// Archiver drives the crawl pipeline: for each configured target it drains
// the listing paginator through the scope filter, the post extractor and the
// archive writer, strictly serially, aggregating outcome counters.
type Archiver struct {
	fetcher   fantia.Fetcher
	extractor PostExtractor
	writer    ArchiveWriter
	cfg       *config.Config
	logger    logger.Logger
}

// New creates an archiver with a real session client and archive writer
// built from the configuration.
func New(cfg *config.Config, log logger.Logger) (*Archiver, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	client := fantia.NewClient(cfg, log)
	writer, err := storage.NewWriter(cfg.Settings.RootOutputDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive writer: %w", err)
	}

	return &Archiver{
		fetcher:   client,
		extractor: fantia.NewExtractor(client, log),
		writer:    writer,
		cfg:       cfg,
		logger:    log,
	}, nil
}

// NewWithComponents wires an archiver from explicit parts. Tests use this to
// substitute fakes.
func NewWithComponents(cfg *config.Config, fetcher fantia.Fetcher, extractor PostExtractor, writer ArchiveWriter, log logger.Logger) *Archiver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Archiver{
		fetcher:   fetcher,
		extractor: extractor,
		writer:    writer,
		cfg:       cfg,
		logger:    log,
	}
}

// Run processes the configured target URLs in order. Per-post failures are
// counted and skipped; an auth failure or a filesystem failure aborts the
// run, marking unprocessed targets as not attempted, and is returned
// alongside the partial outcome.
func (a *Archiver) Run(rawTargets []string) (*RunOutcome, error) {
	outcome := &RunOutcome{}
	var fatal error

	for _, raw := range rawTargets {
		res := TargetResult{URL: raw, Status: StatusNotAttempted}

		if fatal != nil {
			outcome.Targets = append(outcome.Targets, res)
			continue
		}

		target, err := fantia.ParseTarget(raw)
		if err != nil {
			a.logger.WithError(err).Warn("skipping unsupported target URL")
			res.Status = StatusFailed
			res.Err = err
			res.Errors++
			outcome.Targets = append(outcome.Targets, res)
			continue
		}

		a.logger.InfoWithFields("processing target", map[string]interface{}{
			"url": raw,
		})

		if err := a.runTarget(target, &res); err != nil {
			res.Status = StatusFailed
			res.Err = err
			fatal = err
			if fantia.IsAuthError(err) {
				a.logger.Error("authentication failure, aborting remaining targets")
			} else {
				a.logger.WithError(err).Error("filesystem failure, aborting run")
			}
		}

		outcome.Targets = append(outcome.Targets, res)
	}

	return outcome, fatal
}

// runTarget processes one target. The returned error is non-nil only for
// run-fatal conditions (auth, filesystem).
func (a *Archiver) runTarget(target fantia.Target, res *TargetResult) error {
	if target.PostID != 0 {
		return a.runSinglePost(target, res)
	}

	paginator := fantia.NewPaginator(a.fetcher, target, a.logger)
	for {
		summary, err := paginator.Next()
		res.Pages = paginator.Pages()
		if err != nil {
			if fantia.IsAuthError(err) {
				return err
			}
			// Transient pagination failure: later page numbers cannot be
			// trusted, so abandon this target and move on.
			a.logger.WithError(err).WarnWithFields("pagination failed, abandoning target", map[string]interface{}{
				"fanclub": target.FanclubID,
			})
			res.Errors++
			break
		}
		if summary == nil {
			break
		}

		res.Found++
		if !fantia.InScope(summary.Tier, a.cfg.Settings.DownloadScope) {
			a.logger.DebugWithFields("post out of scope", map[string]interface{}{
				"post_id": summary.ID,
				"tier":    string(summary.Tier),
			})
			res.Filtered++
			continue
		}

		if err := a.archivePost(summary.ID, res); err != nil {
			return err
		}
	}

	res.Status = StatusDone
	return nil
}

// runSinglePost handles a /posts/{id} target line without pagination. The
// scope decision uses the paid flag derived from the post API, since there
// is no listing card to read a tier marker from.
func (a *Archiver) runSinglePost(target fantia.Target, res *TargetResult) error {
	res.Found++

	content, err := a.extractor.Extract(target.PostID)
	if err != nil {
		if fantia.IsAuthError(err) {
			return err
		}
		a.countPostError(target.PostID, err, res)
		res.Status = StatusDone
		return nil
	}

	scope := a.cfg.Settings.DownloadScope
	if (scope == config.ScopePaid && !content.Paid) || (scope == config.ScopeFree && content.Paid) {
		res.Filtered++
		res.Status = StatusDone
		return nil
	}

	if err := a.writePost(content, res); err != nil {
		return err
	}
	res.Status = StatusDone
	return nil
}

// archivePost extracts and writes one in-scope post. Extraction failures
// are per-post and only counted; writer failures are fatal.
func (a *Archiver) archivePost(postID int, res *TargetResult) error {
	content, err := a.extractor.Extract(postID)
	if err != nil {
		if fantia.IsAuthError(err) {
			return err
		}
		a.countPostError(postID, err, res)
		return nil
	}

	return a.writePost(content, res)
}

func (a *Archiver) writePost(content *fantia.PostContent, res *TargetResult) error {
	result, err := a.writer.Write(content)
	if err != nil {
		return fmt.Errorf("filesystem error: %w", err)
	}
	if result == storage.Created {
		res.Downloaded++
	} else {
		res.Skipped++
	}
	return nil
}

func (a *Archiver) countPostError(postID int, err error, res *TargetResult) {
	if ee, ok := fantia.IsExtractionError(err); ok {
		a.logger.WarnWithFields("post not extractable", map[string]interface{}{
			"post_id": postID,
			"reason":  string(ee.Reason),
		})
	} else {
		a.logger.WithError(err).WarnWithFields("post fetch failed", map[string]interface{}{
			"post_id": postID,
		})
	}
	res.Errors++
}
