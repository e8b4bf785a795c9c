package ffplay

import (
	"context"
	"fmt"
	"os/exec"
)

// Player shows a rendered video in an ffplay window. Nothing is started
// until Play is called, and the process ends with ctx.
type Player struct {
	bin string
}

func New(binPath string) *Player {
	if binPath == "" {
		binPath = "ffplay"
	}
	return &Player{bin: binPath}
}

func (p *Player) Play(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, p.bin,
		"-autoexit",
		"-loglevel", "error",
		"-window_title", "lyricvid preview",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffplay: %w\n%s", err, string(b))
	}
	return nil
}
