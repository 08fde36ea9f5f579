package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"NewsCollector/internal/domain"
)

// InsertContent writes a content row and its source links atomically.
func (r *Repository) InsertContent(ctx context.Context, content domain.Content, sourceIDs []string) error {
	if strings.TrimSpace(content.ID) == "" {
		return fmt.Errorf("insert content: missing id")
	}
	created := content.CreatedAt
	if created.IsZero() {
		created = r.now()
	}
	status := content.Status
	if status == "" {
		status = domain.ContentDraft
	}

	return r.withTx(ctx, "insert content", func(tx *sql.Tx) error {
		insert := r.sb.Insert("content").
			Columns("id", "type", "title", "slug", "body_markdown", "language", "status", "source_type", "published_at", "created_at").
			Values(
				content.ID, string(content.Type), content.Title, content.Slug, content.BodyMarkdown,
				content.Language, string(status), content.SourceType, nullTime(content.PublishedAt), dbTime(created),
			)
		if _, err := execBuilder(ctx, tx, insert); err != nil {
			return fmt.Errorf("insert content row: %w", err)
		}
		return r.linkSources(ctx, tx, content.ID, sourceIDs)
	})
}

// LinkContentSources attaches more source items to existing content in one transaction.
func (r *Repository) LinkContentSources(ctx context.Context, contentID string, sourceIDs []string) error {
	if len(sourceIDs) == 0 {
		return nil
	}
	return r.withTx(ctx, "link content sources", func(tx *sql.Tx) error {
		return r.linkSources(ctx, tx, contentID, sourceIDs)
	})
}

func (r *Repository) linkSources(ctx context.Context, tx *sql.Tx, contentID string, sourceIDs []string) error {
	for _, id := range sourceIDs {
		insert := r.sb.Insert("content_sources").
			Columns("content_id", "news_item_id").
			Values(contentID, id).
			Suffix("ON CONFLICT (content_id, news_item_id) DO NOTHING")
		if _, err := execBuilder(ctx, tx, insert); err != nil {
			return fmt.Errorf("link source %s: %w", id, err)
		}
	}
	return nil
}

// ContentSources lists news item ids linked to a content row.
func (r *Repository) ContentSources(ctx context.Context, contentID string) ([]string, error) {
	query, args, err := r.sb.Select("news_item_id").
		From("content_sources").
		Where(sq.Eq{"content_id": contentID}).
		OrderBy("news_item_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query content sources: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan source id: %w", err)
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}
	return ids, nil
}

// ContentExists reports whether a content row with the id was committed.
func (r *Repository) ContentExists(ctx context.Context, contentID string) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("content").Where(sq.Eq{"id": contentID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count content: %w", err)
	}
	return n > 0, nil
}
