package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		label   string
		keyword string
		want    Category
		score   float64
	}{
		{"ORG", "acme corp", Organization, 85},
		{"PERSON", "jane doe", Person, 85},
		{"product", "iphone", Product, 85},
		{"GPE", "france", Location, 85},
		{"LAW", "gdpr", Law, 85},
		{"MONEY", "$5 billion", Money, 65},
		{"DATE", "next tuesday", Date, 65},
		{"CARDINAL", "three", Cardinal, 65},
		{"NORP", "europeans", Group, 65},
		{"phrase", "supply chain", Phrase, 60},
		{"", "supply chain", Phrase, 60},
		{"unknown-label", "inflation", Term, 50},
		{"", "inflation", Term, 50},
		{"  org  ", "acme", Organization, 85},
	}

	for _, tt := range tests {
		t.Run(tt.label+"/"+tt.keyword, func(t *testing.T) {
			got := Parse(tt.label, tt.keyword)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.score, got.Score())
		})
	}
}

func TestScoreExhaustive(t *testing.T) {
	for c := range categoryNames {
		assert.Contains(t, []float64{85, 65, 60, 50}, c.Score(), c.String())
	}
}

func TestBest(t *testing.T) {
	assert.Equal(t, Term, Best(nil))
	assert.Equal(t, Organization, Best([]Category{Term, Phrase, Organization, Money}))
	assert.Equal(t, Best([]Category{Person, Organization}), Best([]Category{Organization, Person}))
	assert.Equal(t, Money, Best([]Category{Phrase, Money}))
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(Organization)
	require.NoError(t, err)
	assert.Equal(t, `"organization"`, string(data))

	var c Category
	require.NoError(t, json.Unmarshal([]byte(`"ORG"`), &c))
	assert.Equal(t, Organization, c)
	assert.Error(t, json.Unmarshal([]byte(`"spaceship"`), &c))
	assert.Equal(t, "Category(99)", Category(99).String())
}
