package mediatools

import (
	"context"
	"os"
)

// Fake is an in-process Tooling for tests. Zero value behaves like media with
// no embedded subtitles.
type Fake struct {
	ProbeResult   Probe
	ProbeErr      error
	ConvertErr    error
	ExtractPath   string
	ExtractErr    error
	ConvertCalls  int
	ExtractCalls  int
	ProbeCalls    int
	ConvertedDsts []string
}

func (f *Fake) Probe(_ context.Context, path string) (Probe, error) {
	f.ProbeCalls++
	if f.ProbeErr != nil {
		return Probe{}, f.ProbeErr
	}
	probe := f.ProbeResult
	if probe.SizeBytes == 0 {
		if info, err := os.Stat(path); err == nil {
			probe.SizeBytes = info.Size()
		}
	}
	return probe, nil
}

func (f *Fake) ConvertToWebFormat(_ context.Context, src, dst string) error {
	f.ConvertCalls++
	if f.ConvertErr != nil {
		return f.ConvertErr
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	f.ConvertedDsts = append(f.ConvertedDsts, dst)
	return os.WriteFile(dst, data, 0o644)
}

func (f *Fake) ExtractSubtitles(_ context.Context, _, _ string) (string, error) {
	f.ExtractCalls++
	if f.ExtractErr != nil {
		return "", f.ExtractErr
	}
	if f.ExtractPath == "" {
		return "", ErrNoSubtitles
	}
	return f.ExtractPath, nil
}
