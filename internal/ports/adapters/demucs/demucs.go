package demucs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, model string) *Adapter {
	if binPath == "" {
		binPath = "demucs"
	}
	if model == "" {
		model = "htdemucs"
	}
	return &Adapter{bin: binPath, model: model}
}

// Separate runs a two-stem separation into outDir. Stems left by an earlier
// run of the same model are reused.
func (a *Adapter) Separate(ctx context.Context, audio, outDir string) (string, string, error) {
	vocals, instrumental := a.stems(audio, outDir)
	if exists(vocals) && exists(instrumental) {
		return vocals, instrumental, nil
	}

	cmd := exec.CommandContext(ctx, a.bin,
		"--two-stems=vocals",
		"-n", a.model,
		"-o", outDir,
		audio,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", "", fmt.Errorf("demucs failed: %w\n%s", err, string(b))
	}
	if !exists(vocals) || !exists(instrumental) {
		return "", "", fmt.Errorf("demucs did not produce %s and %s", vocals, instrumental)
	}
	return vocals, instrumental, nil
}

// stems mirrors demucs' output layout: <out>/<model>/<track>/{vocals,no_vocals}.wav.
func (a *Adapter) stems(audio, outDir string) (string, string) {
	track := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
	dir := filepath.Join(outDir, a.model, track)
	return filepath.Join(dir, "vocals.wav"), filepath.Join(dir, "no_vocals.wav")
}

func exists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir() && st.Size() > 0
}
