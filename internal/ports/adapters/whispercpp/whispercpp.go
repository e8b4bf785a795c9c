package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forPelevin/lyricvid/internal/types"
)

type Adapter struct {
	bin      string
	model    string
	language string
}

func New(binPath, modelPath, language string) *Adapter {
	if language == "" {
		language = "auto"
	}
	return &Adapter{bin: binPath, model: modelPath, language: language}
}

// Lyrics transcribes a 16 kHz mono vocal track. Each whisper segment
// becomes a line; word timings come from the token offsets.
func (a *Adapter) Lyrics(ctx context.Context, wavPath, cacheDir string) (types.Lyrics, error) {
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-l", a.language,
		"-ojf",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Lyrics{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Lyrics{}, err
	}
	return parseFull(jb)
}

type fullOutput struct {
	Transcription []struct {
		Text   string  `json:"text"`
		Tokens []token `json:"tokens"`
	} `json:"transcription"`
}

type token struct {
	Text    string `json:"text"`
	Offsets struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"offsets"`
}

// parseFull reads whisper.cpp "-ojf" output. Tokens that begin with a space
// start a new word; special tokens such as [_BEG_] are skipped.
func parseFull(data []byte) (types.Lyrics, error) {
	var out fullOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return types.Lyrics{}, fmt.Errorf("parse whisper output: %w", err)
	}

	var ly types.Lyrics
	for _, seg := range out.Transcription {
		var words []types.Word
		for _, tk := range seg.Tokens {
			if special(tk.Text) {
				continue
			}
			from := float64(tk.Offsets.From) / 1000
			to := float64(tk.Offsets.To) / 1000
			text := strings.TrimSpace(tk.Text)
			if text == "" {
				continue
			}
			if len(words) == 0 || strings.HasPrefix(tk.Text, " ") {
				words = append(words, types.Word{Text: text, Start: from, End: to})
				continue
			}
			last := &words[len(words)-1]
			last.Text += text
			last.End = to
		}
		if len(words) > 0 {
			ly.Lines = append(ly.Lines, types.NewLine(words))
		}
	}
	return ly, nil
}

func special(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "[_") || strings.HasPrefix(s, "<|")
}
