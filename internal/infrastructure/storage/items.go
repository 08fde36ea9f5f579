package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsCollector/internal/domain"
	"NewsCollector/internal/ports"
)

var itemColumns = []string{
	"id", "title", "summary", "full_text", "url", "social_url", "source", "source_tier",
	"category", "score", "engagement", "published_at", "detected_at",
}

var classifiedColumns = []string{
	"agent_category", "agent_score", "why_it_matters", "action",
	"classification_state", "classification_attempts", "classified_at",
}

// UpsertItems inserts new items and refreshes engagement and score of existing ones.
// Identity fields, detected_at and every other column keep the first writer's value.
func (r *Repository) UpsertItems(ctx context.Context, items []domain.NewsItem) (ports.UpsertResult, error) {
	var res ports.UpsertResult
	if len(items) == 0 {
		return res, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	now := r.now()

	err := r.withTx(ctx, "upsert items", func(tx *sql.Tx) error {
		existing, err := existingIDs(ctx, tx, r.sb, ids)
		if err != nil {
			return err
		}
		for _, it := range items {
			detected := it.DetectedAt
			if detected.IsZero() {
				detected = now
			}
			insert := r.sb.Insert("news_items").
				Columns(itemColumns...).
				Values(
					it.ID, it.Title, it.Summary, it.FullText, it.URL, it.SocialURL, it.Source, it.SourceTier,
					string(it.Category), it.Score, it.Engagement, nullTime(it.PublishedAt), dbTime(detected),
				).
				Suffix("ON CONFLICT (id) DO UPDATE SET engagement = excluded.engagement, score = excluded.score")
			if _, err := execBuilder(ctx, tx, insert); err != nil {
				return fmt.Errorf("insert item %s: %w", it.ID, err)
			}
			if _, ok := existing[it.ID]; ok {
				res.Refreshed++
				continue
			}
			existing[it.ID] = struct{}{}
			res.Inserted++
		}
		return nil
	})
	if err != nil {
		return ports.UpsertResult{}, err
	}
	return res, nil
}

func existingIDs(ctx context.Context, tx *sql.Tx, sb sq.StatementBuilderType, ids []string) (map[string]struct{}, error) {
	query, args, err := sb.Select("id").From("news_items").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing ids: %w", err)
	}
	result := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = struct{}{}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}
	return result, nil
}

// GetRecentIdentities returns ids and canonical urls detected within window.
func (r *Repository) GetRecentIdentities(ctx context.Context, window time.Duration) (domain.IdentitySet, error) {
	query, args, err := r.sb.Select("id", "url").
		From("news_items").
		Where(sq.GtOrEq{"detected_at": r.cutoff(window)}).
		ToSql()
	if err != nil {
		return domain.IdentitySet{}, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.IdentitySet{}, fmt.Errorf("query recent identities: %w", err)
	}

	set := domain.NewIdentitySet()
	for rows.Next() {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			_ = rows.Close()
			return domain.IdentitySet{}, fmt.Errorf("scan identity: %w", err)
		}
		set.Add(id, url)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return domain.IdentitySet{}, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return domain.IdentitySet{}, fmt.Errorf("close rows: %w", closeErr)
	}
	return set, nil
}

// GetRecentItemsFull returns items detected within window, best score first,
// oldest detection first among equal scores.
func (r *Repository) GetRecentItemsFull(ctx context.Context, window time.Duration) ([]domain.NewsItem, error) {
	q := r.sb.Select(itemColumns...).
		From("news_items").
		Where(sq.GtOrEq{"detected_at": r.cutoff(window)}).
		OrderBy("score DESC", "detected_at ASC", "id ASC")
	return r.queryItems(ctx, q)
}

// GetUnclassified returns recent items without a verdict, including previously failed ones.
func (r *Repository) GetUnclassified(ctx context.Context, window time.Duration) ([]domain.NewsItem, error) {
	q := r.sb.Select(itemColumns...).
		From("news_items").
		Where(sq.And{
			sq.GtOrEq{"detected_at": r.cutoff(window)},
			sq.Eq{"agent_category": nil},
		}).
		OrderBy("score DESC", "detected_at ASC", "id ASC")
	return r.queryItems(ctx, q)
}

// GetClassified returns recent items with a verdict, highest agent score first.
func (r *Repository) GetClassified(ctx context.Context, window time.Duration) ([]domain.ClassifiedItem, error) {
	query, args, err := r.sb.Select(append(append([]string{}, itemColumns...), classifiedColumns...)...).
		From("news_items").
		Where(sq.And{
			sq.GtOrEq{"detected_at": r.cutoff(window)},
			sq.NotEq{"agent_category": nil},
		}).
		OrderBy("agent_score DESC", "score DESC", "detected_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query classified: %w", err)
	}

	var out []domain.ClassifiedItem
	for rows.Next() {
		var (
			row          itemRow
			ci           domain.ClassifiedItem
			category     sql.NullString
			score        sql.NullInt64
			why, action  sql.NullString
			state        string
			classifiedAt sql.NullTime
		)
		dest := append(row.dest(), &category, &score, &why, &action, &state, &ci.Attempts, &classifiedAt)
		if err := rows.Scan(dest...); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan classified: %w", err)
		}
		ci.NewsItem = row.value()
		ci.AgentCategory = domain.AgentCategory(category.String)
		ci.AgentScore = int(score.Int64)
		ci.WhyItMatters = why.String
		ci.Action = action.String
		ci.State = domain.ClassificationState(state)
		if classifiedAt.Valid {
			ci.ClassifiedAt = classifiedAt.Time.UTC()
		}
		out = append(out, ci)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}
	return out, nil
}

// SaveClassifications merges verdicts and marks failed items in one transaction.
// Failed items keep a NULL agent_category so the next run selects them again.
func (r *Repository) SaveClassifications(ctx context.Context, verdicts []domain.Verdict, failedIDs []string) error {
	if len(verdicts) == 0 && len(failedIDs) == 0 {
		return nil
	}
	now := dbTime(r.now())

	return r.withTx(ctx, "save classifications", func(tx *sql.Tx) error {
		for _, v := range verdicts {
			update := r.sb.Update("news_items").
				SetMap(map[string]any{
					"agent_category":          string(v.AgentCategory),
					"agent_score":             v.AgentScore,
					"why_it_matters":          v.WhyItMatters,
					"action":                  v.Action,
					"classification_state":    string(domain.StateClassified),
					"classification_attempts": sq.Expr("classification_attempts + 1"),
					"classified_at":           now,
				}).
				Where(sq.Eq{"id": v.ID})
			if _, err := execBuilder(ctx, tx, update); err != nil {
				return fmt.Errorf("save verdict %s: %w", v.ID, err)
			}
		}
		if len(failedIDs) == 0 {
			return nil
		}
		update := r.sb.Update("news_items").
			Set("classification_state", string(domain.StateFailed)).
			Set("classification_attempts", sq.Expr("classification_attempts + 1")).
			Where(sq.And{sq.Eq{"id": failedIDs}, sq.Eq{"agent_category": nil}})
		if _, err := execBuilder(ctx, tx, update); err != nil {
			return fmt.Errorf("mark failed: %w", err)
		}
		return nil
	})
}

func (r *Repository) queryItems(ctx context.Context, q sq.SelectBuilder) ([]domain.NewsItem, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	var out []domain.NewsItem
	for rows.Next() {
		var row itemRow
		if err := rows.Scan(row.dest()...); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, row.value())
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}
	return out, nil
}

// itemRow holds scan targets for the item columns, including nullable ones.
type itemRow struct {
	item      domain.NewsItem
	category  string
	published sql.NullTime
}

func (r *itemRow) dest() []any {
	return []any{
		&r.item.ID, &r.item.Title, &r.item.Summary, &r.item.FullText, &r.item.URL, &r.item.SocialURL,
		&r.item.Source, &r.item.SourceTier, &r.category, &r.item.Score, &r.item.Engagement,
		&r.published, &r.item.DetectedAt,
	}
}

func (r *itemRow) value() domain.NewsItem {
	item := r.item
	item.Category = domain.Category(r.category)
	item.DetectedAt = item.DetectedAt.UTC()
	if r.published.Valid {
		item.PublishedAt = r.published.Time.UTC()
	}
	return item
}
