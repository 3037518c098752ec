// Package diphone indexes the pre-recorded unit waveforms by diphone symbol.
//
// A Library is filled once from a Source at startup and is read-only from
// then on, so any number of synthesis requests may share it.
package diphone

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/atsiakkas/audio-synthesizer/internal/audio"
)

// Source exposes decoded unit waveforms by symbol. Decoding the storage
// format is the source's business; the library only indexes the results.
type Source interface {
	// Symbols lists every diphone the source can provide.
	Symbols() ([]string, error)

	// Load returns the waveform for symbol.
	Load(symbol string) (audio.Buffer, error)
}

// Symbol returns the canonical name of the unit spanning first and second.
func Symbol(first, second string) string {
	return first + "-" + second
}

// Split is the inverse of Symbol.
func Split(symbol string) (first, second string, ok bool) {
	return strings.Cut(symbol, "-")
}

// Library maps diphone symbols to waveforms.
type Library struct {
	entries    map[string]audio.Buffer
	sampleRate int
}

// New builds a library from in-memory entries. The nominal sample rate is
// taken from the entries when they agree and falls back to
// audio.DefaultSampleRate otherwise; per-unit rates are checked again at
// assembly time.
func New(entries map[string]audio.Buffer) *Library {
	l := &Library{entries: entries, sampleRate: audio.DefaultSampleRate}
	if l.entries == nil {
		l.entries = map[string]audio.Buffer{}
	}

	rate := 0
	for _, b := range l.entries {
		if rate == 0 {
			rate = b.SampleRate
		} else if b.SampleRate != rate {
			rate = 0
			break
		}
	}
	if rate > 0 {
		l.sampleRate = rate
	}
	return l
}

// Load reads every unit from src, decoding in parallel.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*Library, error) {
	symbols, err := src.Symbols()
	if err != nil {
		return nil, fmt.Errorf("listing diphones: %w", err)
	}
	sort.Strings(symbols)

	var (
		mu      sync.Mutex
		entries = make(map[string]audio.Buffer, len(symbols))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, sym := range symbols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := src.Load(sym)
			if err != nil {
				return fmt.Errorf("loading diphone %q: %w", sym, err)
			}
			mu.Lock()
			entries[sym] = buf
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := New(entries)
	logger.Info("diphone library loaded", "units", lib.Len(), "sample_rate", lib.SampleRate())
	return lib, nil
}

// Lookup returns the waveform recorded for symbol. The returned buffer
// shares storage with the library and must not be modified.
func (l *Library) Lookup(symbol string) (audio.Buffer, bool) {
	b, ok := l.entries[symbol]
	return b, ok
}

// SampleRate returns the nominal rate of the library's recordings.
func (l *Library) SampleRate() int { return l.sampleRate }

// Len returns the number of units.
func (l *Library) Len() int { return len(l.entries) }

// Symbols returns the unit symbols in sorted order.
func (l *Library) Symbols() []string {
	out := make([]string, 0, len(l.entries))
	for sym := range l.entries {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
