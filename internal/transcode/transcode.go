// Package transcode converts recorder WAV audio to MP3 through an external
// ffmpeg process.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/callvault/pkg/lifecycle"
)

// Fixed delivery encoding.
const (
	Codec      = "libmp3lame"
	Bitrate    = "128k"
	Channels   = "1"
	SampleRate = "44100"
	Format     = "mp3"
)

var (
	command  = exec.Command
	lookPath = exec.LookPath
)

// Args returns the encoder arguments: WAV on stdin, MP3 on stdout.
func Args() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-codec:a", Codec,
		"-b:a", Bitrate,
		"-ac", Channels,
		"-ar", SampleRate,
		"-f", Format,
		"pipe:1",
	}
}

// Transcoder runs one encoder process per call. It holds no per-call state
// and is safe for concurrent use.
type Transcoder struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Transcoder from a finalized config.
func New(cfg *Config, logger *slog.Logger) *Transcoder {
	return &Transcoder{
		binary:  cfg.Binary,
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("system", "transcode"),
	}
}

// Start registers a startup check that the encoder binary is on PATH.
// A missing binary marks the service not ready rather than failing each
// request at exec time.
func (t *Transcoder) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		path, err := lookPath(t.binary)
		if err != nil {
			t.logger.Error("encoder binary not found", "binary", t.binary, "error", err)
			lc.Fail("transcode", fmt.Errorf("%w: %w", ErrBinaryNotFound, err))
			return
		}
		t.logger.Info("encoder binary found", "path", path)
	})
	return nil
}

// Transcode encodes raw WAV bytes to MP3. Writing the input, draining both
// output streams and reaping the process share one deadline. The process
// never outlives the call. An encoder that exits zero before consuming all
// input succeeds if it produced output; exiting zero with no output is a
// ProcessError.
func (t *Transcoder) Transcode(ctx context.Context, raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := command(t.binary, Args()...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", t.binary, err)
	}

	var out, diag bytes.Buffer
	var g errgroup.Group

	g.Go(func() error {
		defer stdin.Close()
		if _, err := stdin.Write(raw); err != nil {
			return &inputError{err: err}
		}
		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(&out, stdout); err != nil {
			return fmt.Errorf("read output: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(&diag, stderr); err != nil {
			return fmt.Errorf("read diagnostics: %w", err)
		}
		return nil
	})

	done := make(chan result, 1)
	go func() {
		ioErr := g.Wait()
		done <- result{io: ioErr, wait: cmd.Wait()}
	}()

	var res result
	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.logger.Error("transcode timed out", "timeout", t.timeout, "input_bytes", len(raw))
			return nil, fmt.Errorf("%w after %s", ErrTimeout, t.timeout)
		}
		return nil, fmt.Errorf("transcode interrupted: %w", ctx.Err())

	case res = <-done:
	}

	stderrText := strings.TrimSpace(diag.String())

	if res.wait != nil {
		var exitErr *exec.ExitError
		if errors.As(res.wait, &exitErr) {
			return nil, &ProcessError{ExitCode: exitErr.ExitCode(), Stderr: stderrText}
		}
		return nil, fmt.Errorf("wait %s: %w", t.binary, res.wait)
	}

	if res.io != nil {
		var inErr *inputError
		if !errors.As(res.io, &inErr) || !errors.Is(inErr.err, syscall.EPIPE) {
			return nil, res.io
		}
		t.logger.Debug("encoder exited before reading all input", "input_bytes", len(raw))
	}

	if stderrText != "" {
		t.logger.Debug("encoder diagnostics", "stderr", stderrText)
	}

	if out.Len() == 0 {
		return nil, &ProcessError{Stderr: stderrText, Empty: true}
	}

	return out.Bytes(), nil
}

type result struct {
	io   error
	wait error
}

type inputError struct {
	err error
}

func (e *inputError) Error() string {
	return "write input: " + e.err.Error()
}

func (e *inputError) Unwrap() error {
	return e.err
}
