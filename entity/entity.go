// Package entity classifies keywords into a closed set of categories, each
// with a fixed importance boost.
package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Category int

const (
	Term Category = iota
	Phrase
	Organization
	Person
	Product
	Location
	Law
	Money
	Date
	Cardinal
	Group
)

var categoryNames = map[Category]string{
	Term:         "term",
	Phrase:       "phrase",
	Organization: "organization",
	Person:       "person",
	Product:      "product",
	Location:     "location",
	Law:          "law",
	Money:        "money",
	Date:         "date",
	Cardinal:     "cardinal",
	Group:        "group",
}

// labels maps upstream extractor labels (NER tag sets and plain names) to
// categories. Lookup is case-insensitive.
var labels = map[string]Category{
	"org":          Organization,
	"organization": Organization,
	"organisation": Organization,
	"company":      Organization,
	"person":       Person,
	"per":          Person,
	"product":      Product,
	"gpe":          Location,
	"loc":          Location,
	"location":     Location,
	"fac":          Location,
	"facility":     Location,
	"law":          Law,
	"legal":        Law,
	"money":        Money,
	"date":         Date,
	"time":         Date,
	"cardinal":     Cardinal,
	"quantity":     Cardinal,
	"percent":      Cardinal,
	"norp":         Group,
	"nationality":  Group,
	"group":        Group,
	"phrase":       Phrase,
	"noun_phrase":  Phrase,
	"keyphrase":    Phrase,
	"term":         Term,
	"keyword":      Term,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := labels[strings.ToLower(s)]
	if !ok {
		return fmt.Errorf("entity: unknown category %q", s)
	}
	*c = v
	return nil
}

// Parse maps an upstream label to a category. Unknown or empty labels fall
// back to Term, and a Term made of several words becomes a Phrase.
func Parse(label, keyword string) Category {
	c, ok := labels[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		c = Term
	}
	if c == Term && len(strings.Fields(keyword)) > 1 {
		return Phrase
	}
	return c
}

// Score returns the fixed boost for the category.
func (c Category) Score() float64 {
	switch c {
	case Organization, Person, Product, Location, Law:
		return 85
	case Money, Date, Cardinal, Group:
		return 65
	case Phrase:
		return 60
	case Term:
		return 50
	}
	return 50
}

// Best returns the highest-scoring category, preferring the lower enum value
// on ties so the choice does not depend on input order.
func Best(cats []Category) Category {
	best := Term
	for i, c := range cats {
		if i == 0 || c.Score() > best.Score() || (c.Score() == best.Score() && c < best) {
			best = c
		}
	}
	return best
}
