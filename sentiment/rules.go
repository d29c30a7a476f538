package sentiment

import (
	"math"
	"strings"
	"unicode"
)

const (
	boosterIncrement  = 0.293
	capsIncrement     = 0.733
	negationScalar    = -0.74
	exclaimIncrement  = 0.292
	questionIncrement = 0.18
	normalizeAlpha    = 15.0
	maxExclaims       = 4
	maxQuestions      = 3
	lookback          = 3
)

var boosters = map[string]float64{
	"absolutely": boosterIncrement, "completely": boosterIncrement, "deeply": boosterIncrement,
	"enormously": boosterIncrement, "especially": boosterIncrement, "extremely": boosterIncrement,
	"greatly": boosterIncrement, "highly": boosterIncrement, "hugely": boosterIncrement,
	"incredibly": boosterIncrement, "particularly": boosterIncrement, "really": boosterIncrement,
	"remarkably": boosterIncrement, "significantly": boosterIncrement, "so": boosterIncrement,
	"strongly": boosterIncrement, "substantially": boosterIncrement, "totally": boosterIncrement,
	"tremendously": boosterIncrement, "very": boosterIncrement, "most": boosterIncrement,
	"more": boosterIncrement,

	"barely": -boosterIncrement, "hardly": -boosterIncrement, "less": -boosterIncrement,
	"little": -boosterIncrement, "marginally": -boosterIncrement, "partly": -boosterIncrement,
	"scarcely": -boosterIncrement, "slightly": -boosterIncrement, "somewhat": -boosterIncrement,
	"occasionally": -boosterIncrement,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nobody": true, "nothing": true,
	"neither": true, "nor": true, "nowhere": true, "cannot": true, "without": true,
	"isn't": true, "aren't": true, "wasn't": true, "weren't": true, "don't": true,
	"doesn't": true, "didn't": true, "won't": true, "wouldn't": true, "can't": true,
	"couldn't": true, "shouldn't": true, "hasn't": true, "haven't": true, "hadn't": true,
	"lack": true, "lacks": true, "lacking": true,
}

type token struct {
	raw   string
	lower string
}

func tokenize(text string) []token {
	fields := strings.Fields(text)
	toks := make([]token, 0, len(fields))
	for _, f := range fields {
		raw := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		raw = strings.Trim(raw, "'")
		if raw == "" {
			continue
		}
		toks = append(toks, token{raw: raw, lower: strings.ToLower(strings.ReplaceAll(raw, "’", "'"))})
	}
	return toks
}

func isShouting(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// mixedCaps reports whether some but not all tokens are upper case, which is
// when capitalisation carries emphasis.
func mixedCaps(toks []token) bool {
	shouting := 0
	for _, t := range toks {
		if isShouting(t.raw) {
			shouting++
		}
	}
	return shouting > 0 && shouting < len(toks)
}

// Polarity scores one span. Empty or lexicon-free text scores zero with full
// neutral share.
func (a *Analyzer) Polarity(text string) Scores {
	toks := tokenize(text)
	if len(toks) == 0 {
		return Scores{Neutral: 1}
	}
	caps := mixedCaps(toks)

	valences := make([]float64, len(toks))
	for i, t := range toks {
		if _, ok := boosters[t.lower]; ok {
			continue
		}
		v, ok := a.lexicon[t.lower]
		if !ok {
			continue
		}
		if caps && isShouting(t.raw) {
			v += math.Copysign(capsIncrement, v)
		}
		for back := 1; back <= lookback && i-back >= 0; back++ {
			prev := toks[i-back].lower
			if inc, ok := boosters[prev]; ok {
				decay := 1.0 - 0.05*float64(back-1)
				v += math.Copysign(inc*decay, v)
			}
		}
		for back := 1; back <= lookback && i-back >= 0; back++ {
			if negations[toks[i-back].lower] {
				v *= negationScalar
				break
			}
		}
		valences[i] = v
	}
	applyContrast(toks, valences)

	sum := 0.0
	for _, v := range valences {
		sum += v
	}
	amp := punctuationEmphasis(text)
	switch {
	case sum > 0:
		sum += amp
	case sum < 0:
		sum -= amp
	}

	return shares(valences, sum, amp)
}

// applyContrast damps sentiment before "but" and amplifies what follows.
func applyContrast(toks []token, valences []float64) {
	idx := -1
	for i, t := range toks {
		if t.lower == "but" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	for i := range valences {
		switch {
		case i < idx:
			valences[i] *= 0.5
		case i > idx:
			valences[i] *= 1.5
		}
	}
}

func punctuationEmphasis(text string) float64 {
	ex := min(strings.Count(text, "!"), maxExclaims)
	amp := float64(ex) * exclaimIncrement
	if q := strings.Count(text, "?"); q > 1 {
		amp += float64(min(q, maxQuestions)) * questionIncrement
	}
	return amp
}

func shares(valences []float64, sum, amp float64) Scores {
	var posSum, negSum float64
	neutral := 0
	for _, v := range valences {
		switch {
		case v > 0:
			posSum += v + 1
		case v < 0:
			negSum += v - 1
		default:
			neutral++
		}
	}
	if posSum > math.Abs(negSum) {
		posSum += amp
	} else if posSum < math.Abs(negSum) {
		negSum -= amp
	}

	s := Scores{
		Compound: clamp(sum/math.Sqrt(sum*sum+normalizeAlpha), -1, 1),
	}
	total := posSum + math.Abs(negSum) + float64(neutral)
	if total == 0 {
		s.Neutral = 1
		return s
	}
	s.Positive = math.Abs(posSum / total)
	s.Negative = math.Abs(negSum / total)
	s.Neutral = math.Abs(float64(neutral) / total)
	s.Magnitude = clamp(math.Max(s.Positive, s.Negative), 0, 1)
	return s
}
