package engine

import (
	"context"

	"keyword-trends/models"
	"keyword-trends/scoring"
)

// history is the persisted context of one keyword for a run.
type history struct {
	trailing         []float64
	previousVelocity *float64
}

func buildHistory(records []models.ImportanceRecord, yesterday string) map[string]*history {
	out := make(map[string]*history)
	for _, r := range records {
		h, ok := out[r.Keyword]
		if !ok {
			h = &history{}
			out[r.Keyword] = h
		}
		h.trailing = append(h.trailing, float64(r.Frequency))
		if r.Date == yesterday {
			v := r.Velocity
			h.previousVelocity = &v
		}
	}
	return out
}

// scoreKeyword runs the six scorers for one mention set. It reads only its
// arguments and the shared models, so keywords can be scored in parallel.
func (e *Engine) scoreKeyword(ctx context.Context, ms *mentionSet, stats corpusStats, h *history, w scoring.Weights) (models.ImportanceRecord, error) {
	contextual, err := e.relevance.Score(ctx, ms.keyword, ms.snippets)
	if err != nil {
		return models.ImportanceRecord{}, err
	}

	in := scoring.TemporalInput{Current: ms.count}
	if h != nil {
		in.Trailing = h.trailing
		in.PreviousVelocity = h.previousVelocity
	}
	temporal := scoring.Temporal(in)
	senti := e.models.Sentiment.Aggregate(ms.snippets)

	c := scoring.Components{
		Frequency: scoring.Frequency(scoring.FrequencyInput{
			Count:        ms.count,
			CorpusSize:   stats.slots,
			TotalDocs:    stats.docs,
			DocsWithTerm: ms.docCount,
		}),
		Contextual: contextual,
		Entity:     ms.category.Score(),
		Temporal:   temporal.Score,
		Diversity:  scoring.Diversity(ms.sources, stats.maxSources),
		Sentiment:  scoring.SentimentComponent(senti.Magnitude),
	}

	snippets := ms.snippets
	if snippets == nil {
		snippets = []string{}
	}
	return models.ImportanceRecord{
		Keyword:            ms.keyword,
		ImportanceScore:    scoring.Importance(c, w),
		SentimentScore:     senti.Score,
		SentimentMagnitude: senti.Magnitude,
		SentimentBreakdown: models.SentimentBreakdown{
			Positive: senti.Breakdown.Positive,
			Negative: senti.Breakdown.Negative,
			Neutral:  senti.Breakdown.Neutral,
		},
		Frequency:       ms.count,
		DocumentCount:   ms.docCount,
		SourceDiversity: ms.sources,
		Velocity:        temporal.Velocity,
		Acceleration:    temporal.Acceleration,
		ComponentScores: models.ComponentScores(c),
		SampleSnippets:  snippets,
		ContentIDs:      ms.contentIDs,
	}, nil
}
