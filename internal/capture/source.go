package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrDeviceUnavailable means the capture device could not be opened.
var ErrDeviceUnavailable = errors.New("capture device unavailable")

// FrameSource yields frames one at a time. ok is false when no frame is
// available right now, which is a normal condition.
type FrameSource interface {
	Next(ctx context.Context) (img image.Image, ok bool, err error)
	Close() error
}

// DirOptions configures a DirSource.
type DirOptions struct {
	// Loop restarts from the first frame once the directory is exhausted.
	Loop bool
}

// DirSource replays PNG and JPEG files from a directory in name order.
type DirSource struct {
	mu     sync.Mutex
	files  []string
	pos    int
	loop   bool
	closed bool
}

// OpenDirSource lists the frames in dir. A missing directory or one without
// frames is reported as ErrDeviceUnavailable.
func OpenDirSource(dir string, opts DirOptions) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isFrameFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no frames in %s", ErrDeviceUnavailable, dir)
	}
	sort.Strings(files)
	return &DirSource{files: files, loop: opts.Loop}, nil
}

func (s *DirSource) Next(ctx context.Context) (image.Image, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, false, ErrDeviceUnavailable
	}
	if s.pos >= len(s.files) {
		if !s.loop {
			s.mu.Unlock()
			return nil, false, nil
		}
		s.pos = 0
	}
	path := s.files[s.pos]
	s.pos++
	s.mu.Unlock()

	img, err := readFrame(path)
	if err != nil {
		return nil, false, err
	}
	return img, true, nil
}

// Len reports how many frames the source replays.
func (s *DirSource) Len() int {
	return len(s.files)
}

func (s *DirSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func readFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

func isFrameFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
