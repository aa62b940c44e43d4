// Package encoder pipes composited frames to ffmpeg as raw BGRx video,
// matroska-muxed with the caller's choice of lossless codec (spec.md §4.10,
// grounded on original_source's renderer/__init__.py Encoder class).
package encoder

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Codec selects the ffmpeg video codec and its lossless options.
type Codec string

const (
	H264 Codec = "h264"
	VP9  Codec = "vp9"
)

func (c Codec) opts() ([]string, error) {
	switch c {
	case H264:
		return []string{"-c:v", "libx264", "-qp", "0", "-preset", "ultrafast"}, nil
	case VP9:
		return []string{
			"-c:v", "libvpx-vp9",
			"-deadline", "realtime",
			"-cpu-used", "8",
			"-lossless", "1",
			"-row-mt", "1",
		}, nil
	default:
		return nil, fmt.Errorf("encoder: unknown codec %q", c)
	}
}

// Config describes the output this Encoder writes.
type Config struct {
	Output    string
	Width     int
	Height    int
	Framerate *big.Rat
	Codec     Codec
}

// bufPoolSize is the number of reusable frame buffers kept in flight, so the
// scheduler never blocks on an allocation while ffmpeg catches up (spec.md
// §4.10's "bounded, reused buffers" — three in the original, same here).
const bufPoolSize = 3

// Encoder implements scheduler.FrameSink, converting each straight-RGBA
// frame to bgr0 and writing it to an ffmpeg child process's stdin on a
// dedicated goroutine so Push never blocks on process I/O directly.
type Encoder struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	free   chan []byte
	frames chan []byte

	group   *errgroup.Group
	groupCx context.Context
}

// New builds the ffmpeg command line for cfg, starts the child process, and
// launches the writer goroutine. The caller must call Close to flush and
// reap the process.
func New(ctx context.Context, cfg Config) (*Encoder, error) {
	if cfg.Framerate == nil || cfg.Framerate.Sign() <= 0 {
		return nil, fmt.Errorf("encoder: Framerate must be positive")
	}
	codecOpts, err := cfg.Codec.opts()
	if err != nil {
		return nil, err
	}

	fps, _ := cfg.Framerate.Float64()
	fpsRounded := int(fps + 0.5)

	args := []string{
		"ffmpeg",
		"-y",
		"-nostats",
		"-v", "warning",
		"-f", "rawvideo",
		"-pixel_format", "bgr0",
		"-video_size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-framerate", cfg.Framerate.RatString(),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-vf", fmt.Sprintf("mpdecimate=max=%d:hi=1:lo=1:frac=1", fpsRounded),
	}
	args = append(args, codecOpts...)
	args = append(args,
		"-threads", "2",
		"-g", fmt.Sprintf("%d", fpsRounded*10),
		"-f", "matroska",
		cfg.Output,
	)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder: stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("encoder: start ffmpeg: %w", err)
	}

	frameSize := cfg.Width * cfg.Height * 4
	free := make(chan []byte, bufPoolSize)
	for i := 0; i < bufPoolSize; i++ {
		free <- make([]byte, frameSize)
	}

	e := &Encoder{
		cmd:    cmd,
		stdin:  stdin,
		free:   free,
		frames: make(chan []byte),
	}
	group, groupCx := errgroup.WithContext(ctx)
	e.group = group
	e.groupCx = groupCx
	group.Go(e.run)
	return e, nil
}

// Push satisfies scheduler.FrameSink: frame is straight RGBA, exactly
// width*height*4 bytes, and is converted to bgr0 before handing off to the
// writer goroutine. The caller may reuse frame immediately after Push
// returns.
func (e *Encoder) Push(frame []byte) error {
	var buf []byte
	select {
	case buf = <-e.free:
	case <-e.groupCx.Done():
		return e.group.Wait()
	}

	rgbaToBGRx(buf, frame)

	select {
	case e.frames <- buf:
	case <-e.groupCx.Done():
		return e.group.Wait()
	}
	return nil
}

// Close signals end of input, waits for ffmpeg to finish, and returns a
// non-nil error if it exited non-zero.
func (e *Encoder) Close() error {
	close(e.frames)
	return e.group.Wait()
}

func (e *Encoder) run() error {
	for buf := range e.frames {
		if _, err := e.stdin.Write(buf); err != nil {
			_ = e.stdin.Close()
			_ = e.cmd.Wait()
			return fmt.Errorf("encoder: write frame: %w", err)
		}
		select {
		case e.free <- buf:
		default:
			// Pool already full (shouldn't happen with bufPoolSize in-flight
			// buffers); drop silently rather than block the writer.
		}
	}
	if err := e.stdin.Close(); err != nil {
		return fmt.Errorf("encoder: close stdin: %w", err)
	}
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("encoder: ffmpeg exited: %w", err)
	}
	return nil
}

// rgbaToBGRx swaps R and B and zeroes the pad byte in place, the inverse of
// what a little-endian "bgr0" rawvideo frame needs relative to straight
// RGBA (spec.md §4.10; original_source's Encoder.run comment: "the hardcoded
// 'bgr0' here is only applicable in little-endian").
func rgbaToBGRx(dst, src []byte) {
	for i := 0; i+4 <= len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = 0
	}
}
