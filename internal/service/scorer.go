package service

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// ScoreVector holds the affinity of one text to every category
type ScoreVector map[Category]float64

// Scorer rates a text against every category of an exemplar table.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(text string) ScoreVector
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true,
	"in": true, "on": true, "for": true, "to": true, "from": true,
}

// LexicalScorer compares texts to exemplar sets with TF-IDF weighted cosine similarity.
// Scores fall in [0, 1].
type LexicalScorer struct {
	idf        map[string]float64
	unseenIDF  float64
	categories map[Category]termVector
}

// termVector keeps its terms sorted so sums are accumulated in a fixed order
type termVector struct {
	terms   []string
	weights map[string]float64
	norm    float64
}

// NewLexicalScorer builds the category vectors for an exemplar table
func NewLexicalScorer(exemplars ExemplarTable) *LexicalScorer {
	docs := make(map[Category]map[string]float64, len(exemplars))
	df := make(map[string]int)
	for category, phrases := range exemplars {
		tf := termFrequencies(strings.Join(phrases, " "))
		docs[category] = tf
		for term := range tf {
			df[term]++
		}
	}

	n := float64(len(exemplars))
	s := &LexicalScorer{
		idf:        make(map[string]float64, len(df)),
		unseenIDF:  math.Log(1 + n),
		categories: make(map[Category]termVector, len(docs)),
	}
	for term, count := range df {
		s.idf[term] = math.Log(1 + n/float64(count))
	}
	for category, tf := range docs {
		s.categories[category] = s.weigh(tf)
	}
	return s
}

// Score returns the similarity of text to every category
func (s *LexicalScorer) Score(text string) ScoreVector {
	query := s.weigh(termFrequencies(text))
	scores := make(ScoreVector, len(s.categories))
	for category, doc := range s.categories {
		scores[category] = query.cosine(doc)
	}
	return scores
}

func (s *LexicalScorer) weigh(tf map[string]float64) termVector {
	v := termVector{
		terms:   make([]string, 0, len(tf)),
		weights: make(map[string]float64, len(tf)),
	}
	for term := range tf {
		v.terms = append(v.terms, term)
	}
	sort.Strings(v.terms)

	var sum float64
	for _, term := range v.terms {
		freq := tf[term]
		idf, ok := s.idf[term]
		if !ok {
			idf = s.unseenIDF
		}
		w := freq * idf
		v.weights[term] = w
		sum += w * w
	}
	v.norm = math.Sqrt(sum)
	return v
}

func (v termVector) cosine(other termVector) float64 {
	if v.norm == 0 || other.norm == 0 {
		return 0
	}
	var dot float64
	for _, term := range v.terms {
		dot += v.weights[term] * other.weights[term]
	}
	return dot / (v.norm * other.norm)
}

func termFrequencies(text string) map[string]float64 {
	tf := make(map[string]float64)
	for _, token := range tokenize(text) {
		tf[token]++
	}
	return tf
}

// tokenize lower-cases text, splits on anything but letters and digits,
// drops stop words and folds simple plurals.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopWords[f] {
			continue
		}
		tokens = append(tokens, stem(f))
	}
	return tokens
}

func stem(word string) string {
	switch {
	case len(word) > 4 && strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case len(word) > 3 && strings.HasSuffix(word, "s") &&
		!strings.HasSuffix(word, "ss") && !strings.HasSuffix(word, "us"):
		return word[:len(word)-1]
	}
	return word
}

// cosineSimilarity compares two dense embedding vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
