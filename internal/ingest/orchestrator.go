package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"karagen/internal/catalog"
	"karagen/internal/config"
	"karagen/internal/directory"
	"karagen/internal/fileutil"
	"karagen/internal/karafile"
	"karagen/internal/logging"
	"karagen/internal/mediatools"
	"karagen/internal/naming"
	"karagen/internal/series"
	"karagen/internal/services"
	"karagen/internal/subtitle"
	"karagen/internal/tags"
)

// Orchestrator drives one ingestion through the pipeline states, unwinding
// staged file-system side effects on any failure after staging.
type Orchestrator struct {
	cfg    *config.Config
	dir    directory.Directory
	media  mediatools.Tooling
	codec  *karafile.Codec
	tags   *tags.Reconciler
	series *series.Reconciler
	logger *slog.Logger
	lock   *flock.Flock
	clock  func() time.Time
}

// New wires an orchestrator over its collaborators.
func New(cfg *config.Config, dir directory.Directory, media mediatools.Tooling, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		dir:    dir,
		media:  media,
		codec:  karafile.NewCodec(logger),
		tags:   tags.New(dir, logger),
		series: series.New(dir, logger),
		logger: logging.NewComponentLogger(logger, "ingest"),
		lock:   flock.New(filepath.Join(cfg.Paths.ImportDir, ".import.lock")),
		clock:  time.Now,
	}
}

// Result reports the terminal state of one ingestion.
type Result struct {
	Entry    *catalog.Entry
	State    State
	KaraPath string
}

// run tracks the mutable pipeline state for one ingestion: the staged copies
// and committed destination files that a rollback must remove.
type run struct {
	entry     *catalog.Entry
	state     State
	staged    []string
	committed []string
	prevTags  []string
	karaPath  string
}

// Ingest executes the full pipeline for one request. The import area is held
// under a file lock for the duration so concurrent runs cannot collide on
// staged names.
func (o *Orchestrator) Ingest(ctx context.Context, req Request) (Result, error) {
	locked, err := o.lock.TryLock()
	if err != nil {
		return Result{}, services.Wrap(services.ErrIO, "receiving", "import lock", o.lock.Path(), err)
	}
	if !locked {
		return Result{}, services.Wrap(services.ErrStaging, "receiving", "import lock",
			"another ingestion holds the import area", nil)
	}
	defer func() { _ = o.lock.Unlock() }()

	r := &run{state: StateReceived}
	entry, err := o.buildEntry(req)
	if err != nil {
		return Result{State: r.state}, err
	}
	r.entry = entry

	ctx = services.WithEntryID(ctx, entry.ID)
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("ingestion received", logging.String("title", entry.Title))

	steps := []struct {
		state State
		fn    func(context.Context, *run, Request) error
	}{
		{StateValidated, o.validate},
		{StateStaged, o.stage},
		{StateSubtitleNormalized, o.normalizeSubtitle},
		{StateReconciled, o.reconcile},
		{StateNamed, o.name},
		{StateTranscoded, o.transcode},
		{StateWritten, o.write},
	}

	for _, step := range steps {
		stepCtx := services.WithStage(ctx, string(step.state))
		if err := step.fn(stepCtx, r, req); err != nil {
			if stateAfterStaging(r.state) {
				o.rollback(stepCtx, r)
				r.state = StateRolledBack
			}
			logging.WithContext(stepCtx, o.logger).Error("ingestion failed",
				logging.String("failed_stage", string(step.state)),
				logging.Error(err),
			)
			return Result{Entry: r.entry, State: r.state}, err
		}
		r.state = step.state
		logging.WithContext(stepCtx, o.logger).Debug("stage complete")
	}
	o.cleanupIntake(req)
	r.state = StateCommitted
	logger.Info("ingestion committed",
		logging.String("kara", r.karaPath),
		logging.Bool("new_tags", r.entry.HasNewTags),
		logging.Bool("new_series", r.entry.HasNewSeries),
	)
	return Result{Entry: r.entry, State: r.state, KaraPath: r.karaPath}, nil
}

func stateAfterStaging(s State) bool {
	switch s {
	case StateStaged, StateSubtitleNormalized, StateReconciled, StateNamed, StateTranscoded, StateWritten:
		return true
	}
	return false
}

// buildEntry shapes the request into a catalog entry. Category labels and
// timestamps are resolved here; structural checks wait for validation.
func (o *Orchestrator) buildEntry(req Request) (*catalog.Entry, error) {
	refs, unknown := req.tagRefs()
	if len(unknown) > 0 {
		return nil, services.Wrap(services.ErrValidation, "receiving", "request",
			fmt.Sprintf("unknown tag categories: %s", strings.Join(unknown, ", ")), nil)
	}

	entry := &catalog.Entry{
		ID:            req.EditKID,
		Title:         req.Title,
		Year:          req.Year,
		SongOrder:     req.SongOrder,
		Tags:          refs,
		Series:        append([]string(nil), req.Series...),
		MediaFile:     req.MediaFileOrig,
		MediaFileOrig: req.MediaFileOrig,
		SubFile:       req.SubFileOrig,
		SubFileOrig:   req.SubFileOrig,
		Repository:    o.cfg.Repository.Name,
		NoNewVideo:    req.NoNewVideo,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	now := o.clock().UTC()
	entry.CreatedAt = now
	if ts, err := time.Parse(time.RFC3339, req.CreatedAt); err == nil {
		entry.CreatedAt = ts.UTC()
	}
	entry.ModifiedAt = now
	if ts, err := time.Parse(time.RFC3339, req.ModifiedAt); err == nil {
		entry.ModifiedAt = ts.UTC()
	}

	entry.Normalize()
	return entry, nil
}

func (o *Orchestrator) validate(_ context.Context, r *run, req Request) error {
	if req.MediaIntake == "" {
		return services.Wrap(services.ErrValidation, "validating", "request", "no media file uploaded", nil)
	}
	if violations := r.entry.Validate(); len(violations) > 0 {
		return services.Wrap(services.ErrValidation, "validating", "entry",
			strings.Join(violations, "; "), nil)
	}
	return nil
}

// stage copies the intake uploads into the import area, restoring the real
// extensions from the original filenames. Partial copies are removed on
// failure; nothing has been reconciled yet so no further unwind is needed.
func (o *Orchestrator) stage(_ context.Context, r *run, req Request) error {
	mediaSrc := filepath.Join(o.cfg.Paths.IntakeDir, req.MediaIntake)
	mediaDst := filepath.Join(o.cfg.Paths.ImportDir, r.entry.ID+filepath.Ext(req.MediaFileOrig))
	if err := fileutil.CopyFile(mediaSrc, mediaDst); err != nil {
		_ = os.Remove(mediaDst)
		return services.Wrap(services.ErrStaging, "staging", "media", mediaSrc, err)
	}
	r.staged = append(r.staged, mediaDst)
	r.entry.MediaFile = filepath.Base(mediaDst)

	if req.SubIntake != "" {
		subSrc := filepath.Join(o.cfg.Paths.IntakeDir, req.SubIntake)
		subDst := filepath.Join(o.cfg.Paths.ImportDir, r.entry.ID+filepath.Ext(req.SubFileOrig))
		if err := fileutil.CopyFile(subSrc, subDst); err != nil {
			o.removeStaged(r)
			return services.Wrap(services.ErrStaging, "staging", "subtitle", subSrc, err)
		}
		r.staged = append(r.staged, subDst)
		r.entry.SubFile = filepath.Base(subDst)
	}
	return nil
}

// normalizeSubtitle converts a staged legacy-dialect subtitle to the native
// format in place. An absent subtitle is valid; an unrecognized dialect is a
// hard failure.
func (o *Orchestrator) normalizeSubtitle(_ context.Context, r *run, _ Request) error {
	if r.entry.SubFile == "" {
		return nil
	}
	checksum, err := subtitle.Normalize(filepath.Join(o.cfg.Paths.ImportDir, r.entry.SubFile))
	if err != nil {
		return err
	}
	r.entry.SubChecksum = checksum
	return nil
}

func (o *Orchestrator) reconcile(ctx context.Context, r *run, req Request) error {
	if req.EditKID != "" && req.PreviousKaraPath != "" {
		if err := o.loadPrevious(r, req.PreviousKaraPath); err != nil {
			return err
		}
	}

	r.entry.ApplyDerivedTags()

	tagResult, err := o.tags.Reconcile(ctx, r.entry.Tags, r.prevTags)
	if err != nil {
		return err
	}
	r.entry.Tags = tagResult.Resolved
	r.entry.HasNewTags = tagResult.MintedNew

	primaryLanguage := ""
	if langs := r.entry.TagNames(catalog.CategoryLanguage); len(langs) > 0 {
		primaryLanguage = langs[0]
	}
	seriesResult, err := o.series.Reconcile(ctx, r.entry.Series, primaryLanguage)
	if err != nil {
		return err
	}
	r.entry.SeriesIDs = seriesResult.IDs
	r.entry.HasNewSeries = seriesResult.MintedNew
	return nil
}

// loadPrevious reads the entry being edited: its creation timestamp is
// preserved and its identifier set feeds the reconciler's change detection.
func (o *Orchestrator) loadPrevious(r *run, path string) error {
	doc, err := o.codec.ReadKara(path)
	if err != nil {
		return err
	}
	for _, ids := range doc.Data.Tags {
		r.prevTags = append(r.prevTags, ids...)
	}
	if r.prevTags == nil {
		r.prevTags = []string{}
	}
	if ts, err := time.Parse(time.RFC3339, doc.Data.CreatedAt); err == nil {
		r.entry.CreatedAt = ts.UTC()
	}
	return nil
}

func (o *Orchestrator) name(_ context.Context, r *run, _ Request) error {
	derived := naming.Derive(r.entry)
	stagedMedia := filepath.Join(o.cfg.Paths.ImportDir, r.entry.MediaFile)
	r.entry.MediaFile = derived + strings.ToLower(filepath.Ext(stagedMedia))
	if err := fileutil.MoveFile(stagedMedia, filepath.Join(o.cfg.Paths.ImportDir, r.entry.MediaFile)); err != nil {
		return services.Wrap(services.ErrIO, "naming", "media rename", stagedMedia, err)
	}
	r.staged = replacePath(r.staged, stagedMedia, filepath.Join(o.cfg.Paths.ImportDir, r.entry.MediaFile))

	if r.entry.SubFile != "" {
		stagedSub := filepath.Join(o.cfg.Paths.ImportDir, r.entry.SubFile)
		r.entry.SubFile = derived + ".ass"
		if err := fileutil.MoveFile(stagedSub, filepath.Join(o.cfg.Paths.ImportDir, r.entry.SubFile)); err != nil {
			return services.Wrap(services.ErrIO, "naming", "subtitle rename", stagedSub, err)
		}
		r.staged = replacePath(r.staged, stagedSub, filepath.Join(o.cfg.Paths.ImportDir, r.entry.SubFile))
	}
	return nil
}

// transcode runs the media side of the pipeline: best-effort embedded
// subtitle extraction when none was supplied, the web-format pass for mp4
// containers, and the final probe for duration/gain/size.
func (o *Orchestrator) transcode(ctx context.Context, r *run, _ Request) error {
	stagedMedia := filepath.Join(o.cfg.Paths.ImportDir, r.entry.MediaFile)
	logger := logging.WithContext(ctx, o.logger)

	if r.entry.SubFile == "" {
		extracted, err := o.media.ExtractSubtitles(ctx, stagedMedia, r.entry.ID)
		switch {
		case err == nil:
			subDst := filepath.Join(o.cfg.Paths.ImportDir,
				strings.TrimSuffix(r.entry.MediaFile, filepath.Ext(r.entry.MediaFile))+".ass")
			if moveErr := fileutil.MoveFile(extracted, subDst); moveErr != nil {
				logger.Warn("could not keep extracted subtitles", logging.Error(moveErr))
			} else {
				r.staged = append(r.staged, subDst)
				r.entry.SubFile = filepath.Base(subDst)
				checksum, sumErr := subtitle.Normalize(subDst)
				if sumErr != nil {
					logger.Warn("extracted subtitles unusable", logging.Error(sumErr))
					_ = os.Remove(subDst)
					r.staged = removePath(r.staged, subDst)
					r.entry.SubFile = ""
				} else {
					r.entry.SubChecksum = checksum
				}
			}
		default:
			// Extraction is best-effort enrichment: the entry proceeds
			// without subtitles.
			logger.Info("no embedded subtitles used", logging.Error(err))
		}
	}

	if strings.EqualFold(filepath.Ext(stagedMedia), ".mp4") && !r.entry.NoNewVideo {
		// ffmpeg selects the output muxer from the destination extension,
		// so the temp file must keep the container suffix.
		webPath := strings.TrimSuffix(stagedMedia, filepath.Ext(stagedMedia)) + ".web.mp4"
		if err := o.media.ConvertToWebFormat(ctx, stagedMedia, webPath); err != nil {
			_ = os.Remove(webPath)
			return err
		}
		if err := fileutil.MoveFile(webPath, stagedMedia); err != nil {
			_ = os.Remove(webPath)
			return services.Wrap(services.ErrIO, "transcoding", "web replace", stagedMedia, err)
		}
	}

	probe, err := o.media.Probe(ctx, stagedMedia)
	if err != nil {
		return err
	}
	r.entry.MediaDuration = probe.DurationSeconds
	r.entry.MediaGain = probe.GainDB
	r.entry.MediaSize = probe.SizeBytes
	return nil
}

// write moves the staged files to their destinations and persists the entry
// through the codec. Destination files already moved are tracked so rollback
// can remove them if a later step in this stage fails.
func (o *Orchestrator) write(_ context.Context, r *run, _ Request) error {
	mediaSrc := filepath.Join(o.cfg.Paths.ImportDir, r.entry.MediaFile)
	mediaDst := filepath.Join(o.cfg.Paths.MediasDir, r.entry.MediaFile)
	if err := fileutil.MoveFile(mediaSrc, mediaDst); err != nil {
		return services.Wrap(services.ErrIO, "writing", "media move", mediaSrc, err)
	}
	r.staged = removePath(r.staged, mediaSrc)
	r.committed = append(r.committed, mediaDst)

	if r.entry.SubFile != "" {
		subSrc := filepath.Join(o.cfg.Paths.ImportDir, r.entry.SubFile)
		subDst := filepath.Join(o.cfg.Paths.LyricsDir, r.entry.SubFile)
		if err := fileutil.MoveFile(subSrc, subDst); err != nil {
			return services.Wrap(services.ErrIO, "writing", "subtitle move", subSrc, err)
		}
		r.staged = removePath(r.staged, subSrc)
		r.committed = append(r.committed, subDst)
	}

	karaPath, err := o.codec.WriteKara(o.cfg.Paths.KarasDir, r.entry)
	if err != nil {
		return err
	}
	r.committed = append(r.committed, karaPath, strings.TrimSuffix(karaPath, ".json"))
	r.karaPath = karaPath
	return nil
}

// rollback removes every staged copy and any destination file already moved,
// so the import area never retains orphans from a failed ingestion.
func (o *Orchestrator) rollback(ctx context.Context, r *run) {
	logger := logging.WithContext(ctx, o.logger)
	for _, path := range append(append([]string(nil), r.staged...), r.committed...) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("rollback could not remove file",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}
	r.staged = nil
	r.committed = nil
}

func (o *Orchestrator) removeStaged(r *run) {
	for _, path := range r.staged {
		_ = os.Remove(path)
	}
	r.staged = nil
}

// cleanupIntake deletes the consumed intake uploads. Best effort: a leftover
// intake file is harmless.
func (o *Orchestrator) cleanupIntake(req Request) {
	for _, name := range []string{req.MediaIntake, req.SubIntake} {
		if name == "" {
			continue
		}
		_ = os.Remove(filepath.Join(o.cfg.Paths.IntakeDir, name))
	}
}

func replacePath(paths []string, from, to string) []string {
	for i, path := range paths {
		if path == from {
			paths[i] = to
		}
	}
	return paths
}

func removePath(paths []string, target string) []string {
	out := paths[:0]
	for _, path := range paths {
		if path != target {
			out = append(out, path)
		}
	}
	return out
}
