package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
)

const (
	defaultLanguage = "en"
	maxSlugLength   = 80
)

// ContentRecorder stores generated artifacts together with the items they cite.
type ContentRecorder struct {
	store ports.ContentStore
	now   func() time.Time
}

// NewContentRecorder builds a recorder over the content store.
func NewContentRecorder(store ports.ContentStore) *ContentRecorder {
	return &ContentRecorder{store: store, now: time.Now}
}

// Record fills defaults and inserts the content and its source links atomically.
func (r *ContentRecorder) Record(ctx context.Context, content domain.Content, newsIDs []string) (domain.Content, error) {
	switch content.Type {
	case domain.ContentBlog, domain.ContentNewsletter:
	default:
		return domain.Content{}, fmt.Errorf("unknown content type %q", content.Type)
	}
	content.Title = strings.TrimSpace(content.Title)
	if content.Title == "" {
		return domain.Content{}, errors.New("content title is required")
	}

	if content.ID == "" {
		content.ID = uuid.NewString()
	}
	if content.Slug == "" {
		content.Slug = Slugify(content.Title)
	}
	if content.Slug == "" {
		content.Slug = content.ID
	}
	if content.Status == "" {
		content.Status = domain.ContentDraft
	}
	if content.Language == "" {
		content.Language = defaultLanguage
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = r.now().UTC()
	}
	if content.Status == domain.ContentPublished && content.PublishedAt.IsZero() {
		content.PublishedAt = content.CreatedAt
	}

	if err := r.store.InsertContent(ctx, content, dedupeIDs(newsIDs)); err != nil {
		return domain.Content{}, fmt.Errorf("record content: %w", err)
	}
	return content, nil
}

// Slugify lowercases the title and joins its letters and digits with dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if r := []rune(slug); len(r) > maxSlugLength {
		slug = strings.TrimRight(string(r[:maxSlugLength]), "-")
	}
	return slug
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
