package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"karagen/internal/catalog"
	"karagen/internal/config"
	"karagen/internal/directory"
	"karagen/internal/logging"
	"karagen/internal/mediatools"
	"karagen/internal/services"
	"karagen/internal/testsupport"
)

const assSample = `[Script Info]
Title: Test

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:03.00,Default,,0,0,0,,Hello
`

func validRequest() Request {
	return Request{
		Title:     "Butter-Fly",
		Year:      1999,
		SongOrder: 1,
		Tags: map[string][]string{
			"langs":     {"jpn"},
			"songtypes": {"OP"},
			"singers":   {"Kouji Wada"},
		},
		Series:        []string{"Digimon Adventure"},
		MediaIntake:   "upload1",
		MediaFileOrig: "butterfly.mp4",
		SubIntake:     "upload2",
		SubFileOrig:   "butterfly.ass",
	}
}

func setup(t *testing.T) (*Orchestrator, *config.Config, *directory.Memory, *mediatools.Fake) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	dir := directory.NewMemory()
	media := &mediatools.Fake{ProbeResult: mediatools.Probe{DurationSeconds: 92, GainDB: -3.2}}
	orch := New(cfg, dir, media, logging.NewNop())
	return orch, cfg, dir, media
}

func seedIntake(t *testing.T, cfg *config.Config, req Request) {
	t.Helper()
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.IntakeDir, req.MediaIntake), 2048)
	if req.SubIntake != "" {
		testsupport.WriteText(t, filepath.Join(cfg.Paths.IntakeDir, req.SubIntake), assSample)
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestIngestHappyPath(t *testing.T) {
	orch, cfg, _, media := setup(t)
	req := validRequest()
	seedIntake(t, cfg, req)

	result, err := orch.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.State != StateCommitted {
		t.Fatalf("state = %s, want committed", result.State)
	}

	wantMedia := "JPN - Digimon Adventure - OP1 - Butter-Fly.mp4"
	if result.Entry.MediaFile != wantMedia {
		t.Fatalf("media file = %q, want %q", result.Entry.MediaFile, wantMedia)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.MediasDir, wantMedia)); err != nil {
		t.Fatalf("media not committed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LyricsDir, "JPN - Digimon Adventure - OP1 - Butter-Fly.ass")); err != nil {
		t.Fatalf("subtitle not committed: %v", err)
	}
	if _, err := os.Stat(result.KaraPath); err != nil {
		t.Fatalf("kara file not written: %v", err)
	}
	if result.Entry.MediaDuration != 92 {
		t.Fatalf("duration = %d", result.Entry.MediaDuration)
	}
	if media.ConvertCalls != 1 {
		t.Fatalf("web conversion calls = %d, want 1", media.ConvertCalls)
	}
	if !result.Entry.HasNewTags || !result.Entry.HasNewSeries {
		t.Fatal("minting flags not set on first ingestion")
	}

	// Import area is left clean and the intake uploads are consumed.
	if names := dirEntries(t, cfg.Paths.ImportDir); len(names) > 1 {
		t.Fatalf("import area not clean: %v", names)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.IntakeDir, req.MediaIntake)); !os.IsNotExist(err) {
		t.Fatal("intake media not consumed")
	}
}

func TestIngestValidationFailureTouchesNothing(t *testing.T) {
	orch, cfg, _, _ := setup(t)
	req := validRequest()
	req.Title = ""
	seedIntake(t, cfg, req)

	result, err := orch.Ingest(context.Background(), req)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if result.State == StateCommitted || result.State == StateRolledBack {
		t.Fatalf("state = %s, want pre-staging failure", result.State)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.IntakeDir, req.MediaIntake)); err != nil {
		t.Fatal("intake upload should be untouched")
	}
}

func TestIngestRollbackOnReconcileFailure(t *testing.T) {
	orch, cfg, dir, _ := setup(t)
	dir.FailResolve = services.Wrap(services.ErrDirectory, "resolving", "tag", "down", nil)
	req := validRequest()
	seedIntake(t, cfg, req)

	result, err := orch.Ingest(context.Background(), req)
	if !errors.Is(err, services.ErrDirectory) {
		t.Fatalf("err = %v, want ErrDirectory", err)
	}
	if result.State != StateRolledBack {
		t.Fatalf("state = %s, want rolled back", result.State)
	}
	for _, name := range dirEntries(t, cfg.Paths.ImportDir) {
		if name != ".import.lock" {
			t.Fatalf("staged copy left behind: %s", name)
		}
	}
	if names := dirEntries(t, cfg.Paths.MediasDir); len(names) != 0 {
		t.Fatalf("media committed despite rollback: %v", names)
	}
	if names := dirEntries(t, cfg.Paths.KarasDir); len(names) != 0 {
		t.Fatalf("kara written despite rollback: %v", names)
	}
}

func TestIngestRollbackOnProbeFailure(t *testing.T) {
	orch, cfg, _, media := setup(t)
	media.ProbeErr = services.Wrap(services.ErrTimeout, "probing", "ffprobe", "slow", nil)
	req := validRequest()
	seedIntake(t, cfg, req)

	result, err := orch.Ingest(context.Background(), req)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if result.State != StateRolledBack {
		t.Fatalf("state = %s, want rolled back", result.State)
	}
	for _, name := range dirEntries(t, cfg.Paths.ImportDir) {
		if name != ".import.lock" {
			t.Fatalf("staged copy left behind: %s", name)
		}
	}
}

func TestIngestUnknownSubtitleDialect(t *testing.T) {
	orch, cfg, _, _ := setup(t)
	req := validRequest()
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.IntakeDir, req.MediaIntake), 2048)
	testsupport.WriteText(t, filepath.Join(cfg.Paths.IntakeDir, req.SubIntake), "no timing at all")

	result, err := orch.Ingest(context.Background(), req)
	if !errors.Is(err, services.ErrSubtitleFormat) {
		t.Fatalf("err = %v, want ErrSubtitleFormat", err)
	}
	if result.State != StateRolledBack {
		t.Fatalf("state = %s, want rolled back", result.State)
	}
}

func TestIngestWithoutSubtitleProceeds(t *testing.T) {
	orch, cfg, _, media := setup(t)
	media.ExtractErr = mediatools.ErrNoSubtitles
	req := validRequest()
	req.SubIntake = ""
	req.SubFileOrig = ""
	seedIntake(t, cfg, req)

	result, err := orch.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.State != StateCommitted {
		t.Fatalf("state = %s", result.State)
	}
	if result.Entry.SubFile != "" {
		t.Fatalf("unexpected subtitle %q", result.Entry.SubFile)
	}
	if media.ExtractCalls != 1 {
		t.Fatalf("extract calls = %d, want 1", media.ExtractCalls)
	}
}

func TestIngestNoNewVideoSkipsConversion(t *testing.T) {
	orch, cfg, _, media := setup(t)
	req := validRequest()
	req.NoNewVideo = true
	seedIntake(t, cfg, req)

	if _, err := orch.Ingest(context.Background(), req); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if media.ConvertCalls != 0 {
		t.Fatalf("web conversion ran despite NoNewVideo: %d calls", media.ConvertCalls)
	}
}

func TestIngestWebPassKeepsContainerSuffix(t *testing.T) {
	orch, cfg, _, media := setup(t)
	req := validRequest()
	seedIntake(t, cfg, req)

	if _, err := orch.Ingest(context.Background(), req); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(media.ConvertedDsts) != 1 {
		t.Fatalf("converted dsts = %v, want exactly one", media.ConvertedDsts)
	}
	// The temp output must stay a .mp4 so ffmpeg can infer the muxer, and
	// must not clobber the staged media it reads from.
	dst := media.ConvertedDsts[0]
	if filepath.Ext(dst) != ".mp4" {
		t.Fatalf("web pass output %q lost the container extension", dst)
	}
	staged := filepath.Join(cfg.Paths.ImportDir, "JPN - Digimon Adventure - OP1 - Butter-Fly.mp4")
	if dst == staged {
		t.Fatalf("web pass output overwrote its own input %q", dst)
	}
}

func TestIngestAppliesDerivedTags(t *testing.T) {
	orch, cfg, _, _ := setup(t)
	req := validRequest()
	req.Tags["platforms"] = []string{"Switch"}
	seedIntake(t, cfg, req)

	result, err := orch.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !result.Entry.HasTagNamed(catalog.CategoryFamily, "Video Game") {
		t.Fatal("platform tag did not derive the Video Game family")
	}
	if !result.Entry.HasTagNamed(catalog.CategoryGroup, "90s") {
		t.Fatal("year did not derive the decade group")
	}
}

func TestIngestUnknownCategoryLabel(t *testing.T) {
	orch, cfg, _, _ := setup(t)
	req := validRequest()
	req.Tags["flavors"] = []string{"sweet"}
	seedIntake(t, cfg, req)

	_, err := orch.Ingest(context.Background(), req)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
