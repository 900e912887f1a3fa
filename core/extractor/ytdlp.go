// Package extractor wraps the yt-dlp executable. It is the only piece of
// the system that talks to it; providers and the streaming proxy depend
// on the Extractor interface so tests can substitute a fake.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/GajjarKashyap/Audio/logger"
)

// Options enumerates the per-call switches the adapters rely on. The
// search result cap travels inside the search target itself
// ("ytsearch5:query"), not here.
type Options struct {
	Format     string // -f selector, e.g. "bestaudio/best"
	Flat       bool   // flat extraction: metadata only, no format resolution
	NoPlaylist bool
	Quiet      bool
}

// Info is the subset of yt-dlp's single-json output the adapters read.
// For a search target the interesting part is Entries.
type Info struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	WebpageURL string  `json:"webpage_url"`
	Duration   float64 `json:"duration"`
	Channel    string  `json:"channel"`
	Uploader   string  `json:"uploader"`
	Thumbnail  string  `json:"thumbnail"`
	Entries    []Info  `json:"entries"`
}

// Extractor resolves page URLs and search targets into track metadata
// and direct media URLs.
type Extractor interface {
	// Extract runs one extraction against a page URL or a search target
	// such as "ytsearch5:linkin park numb".
	Extract(ctx context.Context, target string, opts Options) (*Info, error)

	// Resolve turns a track page URL into a directly fetchable audio URL
	// using the best available audio-only format.
	Resolve(ctx context.Context, pageURL string) (string, error)

	// Download fetches a track's audio into destDir and returns the
	// written file path.
	Download(ctx context.Context, pageURL, destDir string) (string, error)
}

// CmdExtractor shells out to the yt-dlp binary.
type CmdExtractor struct {
	Path    string
	Timeout time.Duration
}

// NewCmdExtractor returns an extractor invoking the given yt-dlp binary.
func NewCmdExtractor(path string) *CmdExtractor {
	if path == "" {
		path = "yt-dlp"
	}
	return &CmdExtractor{Path: path, Timeout: 20 * time.Second}
}

func (e *CmdExtractor) Extract(ctx context.Context, target string, opts Options) (*Info, error) {
	args := []string{"--dump-single-json", "--skip-download"}
	if opts.Format != "" {
		args = append(args, "-f", opts.Format)
	}
	if opts.Flat {
		args = append(args, "--flat-playlist")
	}
	if opts.NoPlaylist {
		args = append(args, "--no-playlist")
	}
	if opts.Quiet {
		args = append(args, "--quiet", "--no-warnings")
	}
	args = append(args, target)

	out, err := e.run(ctx, args)
	if err != nil {
		return nil, err
	}

	info := &Info{}
	if err := json.Unmarshal(out, info); err != nil {
		return nil, fmt.Errorf("failed to decode extractor output for %q: %w", target, err)
	}
	return info, nil
}

func (e *CmdExtractor) Resolve(ctx context.Context, pageURL string) (string, error) {
	info, err := e.Extract(ctx, pageURL, Options{
		Format:     "bestaudio/best",
		NoPlaylist: true,
		Quiet:      true,
	})
	if err != nil {
		return "", err
	}
	if info.URL == "" {
		return "", fmt.Errorf("no playable URL in extractor output for %q", pageURL)
	}
	return info.URL, nil
}

func (e *CmdExtractor) Download(ctx context.Context, pageURL, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download dir %s: %w", destDir, err)
	}

	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--no-playlist",
		"--quiet", "--no-warnings",
		"-o", destDir + "/%(id)s.%(ext)s",
		"--print", "after_move:filepath",
		pageURL,
	}

	out, err := e.run(ctx, args)
	if err != nil {
		return "", err
	}

	file := strings.TrimSpace(string(out))
	if file == "" {
		return "", errors.New("extractor reported no output file")
	}
	return file, nil
}

func (e *CmdExtractor) run(ctx context.Context, args []string) ([]byte, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, e.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("extractor timed out after %s", timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("extractor failed: %s", lastLine(msg))
	}

	logger.Debug("extractor call finished",
		logger.String("target", args[len(args)-1]),
		logger.Duration("elapsed", time.Since(start)))

	return stdout.Bytes(), nil
}

// lastLine trims a multi-line stderr dump down to its final line, which
// is where yt-dlp puts the actual error.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return s
}
