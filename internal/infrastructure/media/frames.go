package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/draw"
)

// Executor runs ffmpeg/ffprobe subprocesses for video frame extraction.
type Executor struct {
	FFmpegPath  string
	FFprobePath string
	Threads     int
}

// NewExecutor creates an Executor using the ffmpeg binaries on PATH.
func NewExecutor(threads int) *Executor {
	if threads < 1 {
		threads = 1
	}
	return &Executor{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Threads:     threads,
	}
}

// probeDimensions asks ffprobe for the width and height of the first video
// stream.
func (e *Executor) probeDimensions(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, e.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		path,
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return 0, 0, fmt.Errorf("ffprobe: %w", err)
	}

	fields := strings.Split(strings.TrimSpace(out.String()), ",")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("ffprobe: unexpected output %q", out.String())
	}
	w, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe: bad width: %w", err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe: bad height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("ffprobe: non-positive dimensions %dx%d", w, h)
	}
	return w, h, nil
}

// OpenVideo starts an ffmpeg decode of the file into a raw grayscale frame
// stream. The returned reader must be closed on every exit path.
func (e *Executor) OpenVideo(ctx context.Context, path string) (*VideoReader, error) {
	w, h, err := e.probeDimensions(ctx, path)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, e.FFmpegPath,
		"-v", "error",
		"-threads", strconv.Itoa(e.Threads),
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}

	return &VideoReader{
		cmd:    cmd,
		stdout: stdout,
		width:  w,
		height: h,
	}, nil
}

// VideoReader yields grayscale frames from a running ffmpeg process.
type VideoReader struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	width     int
	height    int
	closeOnce sync.Once
}

// Next reads one frame. Returns io.EOF at the end of the stream.
func (r *VideoReader) Next() (*image.Gray, error) {
	buf := make([]byte, r.width*r.height)
	n, err := io.ReadFull(r.stdout, buf)
	if err != nil {
		if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated frame: got %d of %d bytes", n, len(buf))
		}
		return nil, err
	}
	return &image.Gray{
		Pix:    buf,
		Stride: r.width,
		Rect:   image.Rect(0, 0, r.width, r.height),
	}, nil
}

// Close terminates the decoder process and releases the pipe. Safe to call
// more than once.
func (r *VideoReader) Close() error {
	r.closeOnce.Do(func() {
		r.stdout.Close()
		if r.cmd.Process != nil {
			_ = r.cmd.Process.Kill()
		}
		_ = r.cmd.Wait()
	})
	return nil
}

// DownscaleGray scales the frame down to targetWidth preserving aspect ratio.
// Frames at or below the target are returned unchanged; upscaling never
// occurs.
func DownscaleGray(img *image.Gray, targetWidth int) *image.Gray {
	b := img.Bounds()
	if targetWidth <= 0 || b.Dx() <= targetWidth {
		return img
	}
	scale := float64(targetWidth) / float64(b.Dx())
	dst := image.NewGray(image.Rect(0, 0, targetWidth, int(float64(b.Dy())*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
