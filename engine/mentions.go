package engine

import (
	"sort"

	"keyword-trends/entity"
	"keyword-trends/models"
	"keyword-trends/snippet"
)

// mentionSet is everything the scorers need about one keyword in a batch.
type mentionSet struct {
	keyword    string
	category   entity.Category
	count      int
	docCount   int
	sources    int
	contentIDs []string
	snippets   []string
}

// corpusStats are batch-wide normalisers shared by every keyword.
type corpusStats struct {
	docs       int
	slots      int
	maxSources int
}

// prepareDocuments sorts documents by ID and drops repeated IDs, keeping
// the first after sorting so the survivor does not depend on input order.
func prepareDocuments(docs []models.Document) []models.Document {
	sorted := make([]models.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		return a.Source < b.Source
	})

	out := sorted[:0]
	for i, d := range sorted {
		if i > 0 && d.ID == sorted[i-1].ID {
			continue
		}
		out = append(out, d)
	}
	return out
}

// candidateCategories groups candidate labels by normalised keyword.
// Candidates whose keyword normalises to nothing are dropped.
func candidateCategories(cands []models.Candidate) (keywords []string, cats map[string][]entity.Category) {
	cats = make(map[string][]entity.Category)
	for _, c := range cands {
		kw := models.NormalizeKeyword(c.Keyword)
		if kw == "" {
			continue
		}
		if _, ok := cats[kw]; !ok {
			keywords = append(keywords, kw)
		}
		cats[kw] = append(cats[kw], entity.Parse(c.Category, kw))
	}
	sort.Strings(keywords)
	return keywords, cats
}

// gatherMentions builds a mention set for every keyword found in at least
// one document. Keywords without mentions are left out.
func gatherMentions(docs []models.Document, keywords []string, cats map[string][]entity.Category, opts Options) ([]*mentionSet, corpusStats) {
	stats := corpusStats{docs: len(docs)}
	sets := make([]*mentionSet, 0, len(keywords))

	for _, kw := range keywords {
		m := snippet.NewMatcher(kw)
		ms := &mentionSet{keyword: kw, category: entity.Best(cats[kw])}
		sources := make(map[string]struct{})

		for _, d := range docs {
			n := m.Count(d.Text)
			if n == 0 {
				continue
			}
			ms.count += n
			ms.docCount++
			if d.Source != "" {
				sources[d.Source] = struct{}{}
			}
			if len(ms.contentIDs) < opts.MaxContentIDs {
				ms.contentIDs = append(ms.contentIDs, d.ID)
			}
			if room := opts.MaxMentions - len(ms.snippets); room > 0 {
				ms.snippets = append(ms.snippets, m.Extract(d.Text, opts.SnippetWindow, room)...)
			}
		}
		if ms.count == 0 {
			continue
		}

		ms.sources = len(sources)
		stats.slots += ms.count
		stats.maxSources = max(stats.maxSources, ms.sources)
		sets = append(sets, ms)
	}
	return sets, stats
}
