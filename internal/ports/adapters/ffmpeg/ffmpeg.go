package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/lyricvid/internal/ports"
)

var ErrBadDuration = errors.New("ffprobe: unparsable duration")

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) RenderLyricVideo(ctx context.Context, job ports.RenderJob) error {
	args, err := renderArgs(job)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render lyric video: %w\n%s", err, string(b))
	}
	return nil
}

// renderArgs builds the ffmpeg command line: a background (blurred image or
// solid colour), the original mix turned down under the instrumental, and
// the lyrics burned in from the ASS file.
func renderArgs(job ports.RenderJob) ([]string, error) {
	if job.Audio == "" || job.Out == "" {
		return nil, fmt.Errorf("render job needs audio and output paths")
	}
	if job.Width <= 0 || job.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", job.Width, job.Height)
	}
	fps := job.FPS
	if fps <= 0 {
		fps = 30
	}
	size := fmt.Sprintf("%dx%d", job.Width, job.Height)

	args := []string{"-y"}
	var bg string
	if job.Background != "" {
		args = append(args, "-loop", "1", "-i", job.Background)
		bg = fmt.Sprintf("[0:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,gblur=sigma=12,setsar=1,fps=%d",
			job.Width, job.Height, job.Width, job.Height, fps)
	} else {
		color := job.BgColor
		if color == "" {
			color = "black"
		}
		args = append(args, "-f", "lavfi", "-i", fmt.Sprintf("color=c=%s:s=%s:r=%d", color, size, fps))
		bg = "[0:v]setsar=1"
	}
	args = append(args, "-i", job.Audio)

	var filters []string
	if job.Subtitles != "" {
		filters = append(filters, bg+",subtitles="+escapeFilterPath(job.Subtitles)+"[v]")
	} else {
		filters = append(filters, bg+"[v]")
	}
	if job.Instrumental != "" {
		args = append(args, "-i", job.Instrumental)
		filters = append(filters,
			fmt.Sprintf("[1:a]volume=%s[orig]", strconv.FormatFloat(job.AudioVolume, 'f', 2, 64)),
			"[orig][2:a]amix=inputs=2:duration=longest:normalize=0[a]",
		)
	} else {
		filters = append(filters, "[1:a]anull[a]")
	}

	args = append(args,
		"-filter_complex", strings.Join(filters, ";"),
		"-map", "[v]",
		"-map", "[a]",
	)
	if job.Duration > 0 {
		args = append(args, "-t", fmtSeconds(job.Duration))
	}
	args = append(args,
		"-shortest",
		"-r", strconv.Itoa(fps),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		job.Out,
	)
	return args, nil
}

// ProbeDuration reports the container duration of in. Streams without a
// known duration yield zero.
func (a *Adapter) ProbeDuration(ctx context.Context, in string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w\n%s", in, err, string(b))
	}
	return parseProbeDuration(string(b))
}

func parseProbeDuration(out string) (time.Duration, error) {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return 0, nil
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || sec < 0 {
		return 0, fmt.Errorf("parse duration %q: %w", s, ErrBadDuration)
	}
	return time.Duration(sec * float64(time.Second)).Round(time.Millisecond), nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	p = strings.ReplaceAll(p, ",", "\\,")
	p = strings.ReplaceAll(p, "[", "\\[")
	p = strings.ReplaceAll(p, "]", "\\]")
	return p
}
