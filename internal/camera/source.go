package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"gocv.io/x/gocv"
)

// ErrNoFrame reports a transient acquisition failure (stream hiccup, network
// timeout, truncated or undecodable snapshot). Session loops retry after a
// short pause instead of aborting.
var ErrNoFrame = errors.New("no frame available")

// maxSnapshotBytes caps a single snapshot response body. IP webcam snapshots
// are single JPEG frames, well under this limit.
const maxSnapshotBytes = 16 << 20

// Source acquires color frames from a networked camera. It reads from a
// persistent stream when one could be opened and falls back to fetching the
// snapshot endpoint over plain HTTP otherwise. No frames are cached; every
// call reflects the freshest obtainable capture.
type Source struct {
	addr   string
	stream *gocv.VideoCapture
	client *http.Client
}

// OpenStream normalizes addr and opens a frame source, attempting a
// persistent capture stream first. A stream that cannot be opened is not an
// error; the source silently serves snapshot fetches instead.
func OpenStream(addr string, snapshotTimeout time.Duration) *Source {
	s := OpenSnapshot(addr, snapshotTimeout)
	if cap, err := gocv.OpenVideoCapture(s.addr); err == nil {
		s.stream = cap
	}
	return s
}

// OpenSnapshot normalizes addr and opens a snapshot-only frame source. Used
// by recognition, which has no need for a persistent stream.
func OpenSnapshot(addr string, snapshotTimeout time.Duration) *Source {
	if snapshotTimeout <= 0 {
		snapshotTimeout = 5 * time.Second
	}
	return &Source{
		addr:   NormalizeAddress(addr),
		client: &http.Client{Timeout: snapshotTimeout},
	}
}

// Address returns the normalized camera address.
func (s *Source) Address() string {
	return s.addr
}

// Next returns the freshest obtainable color frame. The caller owns the
// returned Mat and must Close it. On any transient failure the error wraps
// ErrNoFrame.
func (s *Source) Next(ctx context.Context) (gocv.Mat, error) {
	if s.stream != nil && s.stream.IsOpened() {
		frame := gocv.NewMat()
		if s.stream.Read(&frame) && !frame.Empty() {
			return frame, nil
		}
		frame.Close()
	}
	return s.fetchSnapshot(ctx)
}

func (s *Source) fetchSnapshot(ctx context.Context) (gocv.Mat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.addr, nil)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: building snapshot request: %v", ErrNoFrame, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: fetching snapshot: %v", ErrNoFrame, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gocv.Mat{}, fmt.Errorf("%w: snapshot returned status %d", ErrNoFrame, resp.StatusCode)
	}

	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: reading snapshot body: %v", ErrNoFrame, err)
	}

	frame, err := gocv.IMDecode(buf, gocv.IMReadColor)
	if err != nil || frame.Empty() {
		if !frame.Empty() {
			frame.Close()
		}
		return gocv.Mat{}, fmt.Errorf("%w: decoding snapshot", ErrNoFrame)
	}
	return frame, nil
}

// Close releases the persistent stream, if any. Safe to call on every exit
// path.
func (s *Source) Close() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}
