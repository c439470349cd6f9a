package news

import (
	"context"

	"github.com/valerie-05/AI-Immigration-Assistant/internal/store"
)

// CategoryAll selects every article.
const CategoryAll = "all"

// Service is a read-only passthrough over the article store for the news
// surface. It never mutates records.
type Service struct {
	articles store.ArticleStore
}

func NewService(articles store.ArticleStore) *Service {
	return &Service{articles: articles}
}

func (s *Service) List(ctx context.Context, category string) ([]store.Article, error) {
	all, err := s.articles.ListArticles(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" || category == CategoryAll {
		return all, nil
	}
	filtered := make([]store.Article, 0, len(all))
	for _, a := range all {
		if a.Category == category {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// Categories returns "all" plus each distinct category in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	all, err := s.articles.ListArticles(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{CategoryAll}
	seen := map[string]struct{}{}
	for _, a := range all {
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	return out, nil
}
