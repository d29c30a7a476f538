// Package sentiment scores text spans with a rule-based valence lexicon.
//
// Each span yields a compound polarity in [-1, 1] and a magnitude in
// [0, 1]; Aggregate folds many spans into a per-keyword summary. Scoring
// is deterministic and needs no training. The lexicon is read-only after
// loading, so an Analyzer is safe for concurrent use.
package sentiment

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

//go:embed lexicon.txt
var embeddedLexicon string

// ErrEmptyLexicon is returned when a lexicon source holds no entries.
var ErrEmptyLexicon = errors.New("sentiment: lexicon has no entries")

// Polarity thresholds for classifying a span.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Scores is the result for a single span.
type Scores struct {
	Compound  float64 `json:"compound"`
	Positive  float64 `json:"positive"`
	Negative  float64 `json:"negative"`
	Neutral   float64 `json:"neutral"`
	Magnitude float64 `json:"magnitude"`
}

type Breakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Aggregate summarises a set of spans.
type Aggregate struct {
	Score     float64   `json:"score"`     // mean compound, -1..1
	Magnitude float64   `json:"magnitude"` // mean magnitude, 0..1
	Breakdown Breakdown `json:"breakdown"`
}

// Analyzer holds the valence lexicon.
type Analyzer struct {
	lexicon map[string]float64
}

// Load builds an Analyzer from the lexicon compiled into the binary.
func Load() (*Analyzer, error) {
	return parse(strings.NewReader(embeddedLexicon))
}

// LoadFile builds an Analyzer from a tab-separated "token\tvalence" file.
func LoadFile(path string) (*Analyzer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sentiment: open lexicon: %w", err)
	}
	defer f.Close()
	return parse(f)
}

var loadDefault = sync.OnceValues(Load)

// Default returns the process-wide Analyzer for the embedded lexicon,
// loading it on first use.
func Default() (*Analyzer, error) {
	return loadDefault()
}

func parse(r io.Reader) (*Analyzer, error) {
	lex := make(map[string]float64, 256)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		lex[strings.ToLower(strings.TrimSpace(parts[0]))] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sentiment: read lexicon: %w", err)
	}
	if len(lex) == 0 {
		return nil, ErrEmptyLexicon
	}
	return &Analyzer{lexicon: lex}, nil
}

// Len reports the number of lexicon entries.
func (a *Analyzer) Len() int { return len(a.lexicon) }

// Aggregate scores every span and averages the results. No spans yields
// the zero Aggregate.
func (a *Analyzer) Aggregate(spans []string) Aggregate {
	var agg Aggregate
	if len(spans) == 0 {
		return agg
	}
	var sumScore, sumMag float64
	for _, span := range spans {
		s := a.Polarity(span)
		sumScore += s.Compound
		sumMag += s.Magnitude
		switch {
		case s.Compound > PositiveThreshold:
			agg.Breakdown.Positive++
		case s.Compound < NegativeThreshold:
			agg.Breakdown.Negative++
		default:
			agg.Breakdown.Neutral++
		}
	}
	n := float64(len(spans))
	agg.Score = clamp(sumScore/n, -1, 1)
	agg.Magnitude = clamp(sumMag/n, 0, 1)
	return agg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
