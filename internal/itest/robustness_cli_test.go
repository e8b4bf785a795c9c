//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 30 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	env             map[string]string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	fx := newFixtures(t)

	cases := []robustCase{
		{
			name: "no args",
			args: staticArgs(),
			wantContains: []string{
				"accepts 1 arg(s), received 0",
			},
		},
		{
			name: "too many args",
			args: staticArgs(fx.audio, "extra"),
			wantContains: []string{
				"accepts 1 arg(s), received 2",
			},
		},
		{
			name: "unknown flag",
			args: staticArgs(fx.audio, "--wat"),
			wantContains: []string{
				"unknown flag: --wat",
			},
		},
		{
			name: "max duration not a number",
			args: staticArgs(fx.audio, "--max-duration", "nope"),
			wantContains: []string{
				`invalid argument "nope" for "--max-duration"`,
			},
		},
		{
			name: "unknown log format",
			args: staticArgs(fx.audio, "--log-format", "xml"),
			wantContains: []string{
				`unknown log format "xml"`,
			},
		},
		{
			name: "whisper model required",
			args: staticArgs(fx.audio, "--config", fx.absentConfig),
			env: map[string]string{
				"LYRICVID_WHISPER_MODEL": "",
			},
			wantContains: []string{
				"config: whisper model path is required",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

func TestRobustness_InvalidInputs(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	fx := newFixtures(t)

	cases := []robustCase{
		{
			name: "missing input path",
			args: staticArgs(filepath.Join(fx.dir, "does-not-exist.mp3"), "--lyrics", fx.lyrics),
			wantContains: []string{
				"config: stat input:",
			},
		},
		{
			name: "missing lyrics file",
			args: staticArgs(fx.audio, "--lyrics", filepath.Join(fx.dir, "nope.json")),
			wantContains: []string{
				"config: stat lyrics:",
			},
		},
		{
			name: "unsupported lyrics format",
			args: staticArgs(fx.audio, "--lyrics", fx.notMedia, "--no-separation", "--config", fx.absentConfig,
				"--out", filepath.Join(fx.dir, "out"), "--cache", filepath.Join(fx.dir, "cache")),
			wantContains: []string{
				"unsupported lyrics file",
			},
		},
		{
			name: "broken config file",
			args: staticArgs(fx.audio, "--config", fx.brokenConfig),
			wantContains: []string{
				"config: parse config:",
			},
		},
		{
			name: "input is non media file",
			args: staticArgs(fx.notMedia, "--lyrics", fx.lyrics, "--no-separation", "--config", fx.absentConfig,
				"--out", filepath.Join(fx.dir, "out"), "--cache", filepath.Join(fx.dir, "cache")),
			wantContains: []string{
				"ffmpeg render lyric video:",
			},
		},
		{
			name: "out points to file",
			args: func(t *testing.T, _ string) []string {
				t.Helper()
				tmp := t.TempDir()
				outFile := filepath.Join(tmp, "out-file")
				if err := os.WriteFile(outFile, []byte("x"), 0o644); err != nil {
					t.Fatalf("write out file fixture: %v", err)
				}
				return []string{fx.audio, "--lyrics", fx.lyrics, "--no-separation", "--config", fx.absentConfig,
					"--out", outFile, "--cache", filepath.Join(tmp, "cache")}
			},
			wantContains: []string{
				"not a directory",
			},
		},
	}

	runRobustCases(t, repoRoot, cases)
}

type fixtures struct {
	dir          string
	audio        string
	lyrics       string
	notMedia     string
	absentConfig string
	brokenConfig string
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	dir := t.TempDir()
	fx := fixtures{
		dir:          dir,
		audio:        filepath.Join(dir, "Artist - Song.mp3"),
		lyrics:       filepath.Join(dir, "lyrics.json"),
		notMedia:     filepath.Join(dir, "not-media.txt"),
		absentConfig: filepath.Join(dir, "absent.toml"),
		brokenConfig: filepath.Join(dir, "broken.toml"),
	}
	files := map[string]string{
		fx.audio:        "ID3",
		fx.lyrics:       `{"lines": [{"words": [{"text": "hi", "start": 1, "end": 2}]}]}`,
		fx.notMedia:     "this is not audio",
		fx.brokenConfig: "[layout\nmax_line_length = ",
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	return fx
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t, repoRoot), tc.env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./" + mainPkg}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
