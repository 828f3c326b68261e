// ABOUTME: Decoded-file cache for the play and repeat commands
// ABOUTME: Entries expire after a TTL and are dropped when the file changes
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Resonate-Protocol/soundshell/pkg/audio"
	"github.com/Resonate-Protocol/soundshell/pkg/audio/wav"
)

// Loader decodes WAV files, remembering recent results.
type Loader struct {
	cache *cache.Cache // nil when caching is disabled
	read  func(path string) (audio.Decoded, error)
}

type cachedFile struct {
	modTime time.Time
	size    int64
	audio   audio.Decoded
}

// NewLoader creates a loader whose entries live for ttl. A ttl of zero
// disables caching.
func NewLoader(ttl time.Duration) *Loader {
	l := &Loader{read: wav.ReadFile}
	if ttl > 0 {
		l.cache = cache.New(ttl, 2*ttl)
	}
	return l
}

// Load returns the decoded contents of path.
func (l *Loader) Load(path string) (audio.Decoded, error) {
	if l.cache == nil {
		return l.read(path)
	}

	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	info, statErr := os.Stat(path)
	if statErr == nil {
		if v, ok := l.cache.Get(key); ok {
			entry := v.(cachedFile)
			if entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
				return entry.audio, nil
			}
		}
	}

	a, err := l.read(path)
	if err != nil {
		l.cache.Delete(key)
		return audio.Decoded{}, err
	}
	if statErr == nil {
		l.cache.SetDefault(key, cachedFile{modTime: info.ModTime(), size: info.Size(), audio: a})
	}
	return a, nil
}

// Len returns the number of cached files.
func (l *Loader) Len() int {
	if l.cache == nil {
		return 0
	}
	return l.cache.ItemCount()
}
