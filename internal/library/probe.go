package library

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/tcolgate/mp3"
	"golang.org/x/sync/errgroup"
)

// TrackInfo is what the now-playing panel shows about a track.
type TrackInfo struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration // 0 when it could not be determined
}

// Probe reads tags and the duration of a track. Missing tags fall back to
// the file name; a file that cannot be read yields just that.
func Probe(path string) TrackInfo {
	base := filepath.Base(path)
	info := TrackInfo{
		Path:  path,
		Title: strings.TrimSuffix(base, filepath.Ext(base)),
	}

	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	if md, err := tag.ReadFrom(f); err == nil {
		if title := md.Title(); title != "" {
			info.Title = title
		}
		info.Artist = md.Artist()
		info.Album = md.Album()
	}

	info.Duration = probeDuration(path)
	return info
}

// ProbeAll probes paths with at most limit files open at once.
func ProbeAll(ctx context.Context, paths []string, limit int) (map[string]TrackInfo, error) {
	var mu sync.Mutex
	out := make(map[string]TrackInfo, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info := Probe(p)
			mu.Lock()
			out[p] = info
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

func probeDuration(path string) time.Duration {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3Duration(path)
	case ".flac":
		return flacDuration(path)
	case ".wav":
		return wavDuration(path)
	case ".ogg":
		return oggDuration(path)
	default:
		return 0
	}
}

func mp3Duration(path string) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var (
		total   time.Duration
		skipped int
		frame   mp3.Frame
	)
	d := mp3.NewDecoder(f)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0
		}
		total += frame.Duration()
	}
	return total
}

func flacDuration(path string) time.Duration {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0
	}
	defer stream.Close()

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NSamples == 0 {
		return 0
	}
	return time.Duration(float64(info.NSamples) / float64(info.SampleRate) * float64(time.Second))
}

func wavDuration(path string) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return 0
	}
	dur, err := d.Duration()
	if err != nil {
		return 0
	}
	return dur
}

func oggDuration(path string) time.Duration {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	r, err := oggvorbis.NewReader(f)
	if err != nil || r.SampleRate() == 0 {
		return 0
	}
	return time.Duration(float64(r.Length()) / float64(r.SampleRate()) * float64(time.Second))
}
