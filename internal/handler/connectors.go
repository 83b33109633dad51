package handler

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// Retriever fetches context from an external retrieval service.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (domain.RetrievedContext, error)
}

// DocumentSource lists the documents of a knowledge base.
type DocumentSource interface {
	Documents(ctx context.Context) ([]domain.Document, error)
}

// NoneConnector returns an empty context.
func NoneConnector(ctx context.Context, query string) (domain.RetrievedContext, error) {
	return domain.RetrievedContext{}, nil
}

// errNoSource is returned by connectors built without their backing client.
var errNoSource = errors.New("connector source not configured")

// RetrieverConnector adapts a Retriever to a ConnectorFunc.
func RetrieverConnector(r Retriever) ConnectorFunc {
	return func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		if r == nil {
			return domain.RetrievedContext{}, errNoSource
		}
		return r.Retrieve(ctx, query)
	}
}

// KnowledgeBaseConnector ranks the source's documents by overlap with the
// query terms and returns the best topN.
func KnowledgeBaseConnector(src DocumentSource, topN int) ConnectorFunc {
	if topN <= 0 {
		topN = 3
	}
	return func(ctx context.Context, query string) (domain.RetrievedContext, error) {
		if src == nil {
			return domain.RetrievedContext{}, errNoSource
		}
		docs, err := src.Documents(ctx)
		if err != nil {
			return domain.RetrievedContext{}, err
		}
		return domain.RetrievedContext{Documents: rankDocuments(query, docs, topN)}, nil
	}
}

func rankDocuments(query string, docs []domain.Document, topN int) []domain.Document {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	ranked := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		words := tokenize(d.Title + " " + d.Content)
		if len(words) == 0 {
			continue
		}
		seen := make(map[string]struct{}, len(words))
		for _, w := range words {
			seen[w] = struct{}{}
		}
		hits := 0
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		d.Score = float64(hits) / float64(len(terms))
		ranked = append(ranked, d)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// tokenize lowercases s and splits it into unique words of two or more letters or digits.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
