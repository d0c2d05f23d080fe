package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/trip-claim/internal/model"
)

// Classifier assigns a purpose to a trip from its pickup address.
type Classifier struct {
	home []string
	work []string
}

// NewClassifier folds the keyword lists once. Empty keywords are dropped.
func NewClassifier(k model.KeywordSet) *Classifier {
	return &Classifier{
		home: foldAll(k.Home),
		work: foldAll(k.Work),
	}
}

// Classify returns PurposeReturnFromWork when pickup contains a home
// keyword, PurposeGoingToWork when it contains a work keyword, and
// PurposeUnknown otherwise. Home is checked first.
func (c *Classifier) Classify(pickup string) model.Purpose {
	p := fold(pickup)
	if p == "" {
		return model.PurposeUnknown
	}
	if containsAny(p, c.home) {
		return model.PurposeReturnFromWork
	}
	if containsAny(p, c.work) {
		return model.PurposeGoingToWork
	}
	return model.PurposeUnknown
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if f := fold(k); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
