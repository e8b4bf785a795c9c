// Package lyricsfile loads word-timed lyrics prepared ahead of time, in
// the same tree the transcriber produces (lines of timed words).
package lyricsfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forPelevin/lyricvid/internal/types"
)

type Adapter struct {
	path string
}

func New(path string) *Adapter {
	return &Adapter{path: path}
}

// Lyrics ignores the vocal track; the file already carries timings.
func (a *Adapter) Lyrics(ctx context.Context, _, _ string) (types.Lyrics, error) {
	if err := ctx.Err(); err != nil {
		return types.Lyrics{}, err
	}
	return Read(a.path)
}

func Read(path string) (types.Lyrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Lyrics{}, err
	}
	var ly types.Lyrics
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &ly)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &ly)
	default:
		return types.Lyrics{}, fmt.Errorf("unsupported lyrics file %q (want .json, .yaml or .yml)", path)
	}
	if err != nil {
		return types.Lyrics{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return ly, nil
}
