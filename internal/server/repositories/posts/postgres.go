package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/google/uuid"
)

const selectPost = `SELECT p.id, p.title, p.body, p.owner_id, p.owner_username, p.published_date,
		COALESCE((SELECT json_agg(t.tag ORDER BY t.position) FROM post_tags t WHERE t.post_id = p.id), '[]')
		FROM posts p`

// PostgresRepository writes a post and its tags in one transaction, so it
// holds the pool rather than a dbx.DBTX.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO posts (title, body, owner_id, owner_username, published_date)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id
			 `
		err := tx.QueryRowContext(ctx, query,
			post.Title, post.Body, post.Owner.ID, post.Owner.UserName, post.PublishedDate).Scan(&post.ID)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return insertTags(ctx, tx, post.ID, post.Tags)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return getPost(ctx, r.db, id)
}

func (r *PostgresRepository) List(ctx context.Context, filter models.PostFilter, offset, limit int) ([]*models.Post, error) {
	where, args := whereClause(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf("%s%s ORDER BY p.published_date DESC, p.id DESC LIMIT $%d OFFSET $%d",
		selectPost, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, filter models.PostFilter) (int, error) {
	where, args := whereClause(filter)

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM posts p"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	var post *models.Post
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`UPDATE posts SET title = COALESCE($2, title), body = COALESCE($3, body)
			 WHERE id = $1
			 `
		res, err := tx.ExecContext(ctx, query, id, patch.Title, patch.Body)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected error: %w", err)
		}
		if n == 0 {
			return common.ErrorNotFound
		}

		if patch.Tags != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			if err := insertTags(ctx, tx, id, patch.Tags); err != nil {
				return err
			}
		}

		post, err = getPost(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func insertTags(ctx context.Context, tx dbx.DBTX, postID string, tags []string) error {
	for i, tag := range tags {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, position, tag) VALUES ($1, $2, $3)`, postID, i, tag)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func getPost(ctx context.Context, db dbx.DBTX, id string) (*models.Post, error) {
	post, err := scanPost(db.QueryRowContext(ctx, selectPost+" WHERE p.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	return post, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	var (
		post models.Post
		tags []byte
	)
	err := row.Scan(&post.ID, &post.Title, &post.Body, &post.Owner.ID, &post.Owner.UserName, &post.PublishedDate, &tags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(tags, &post.Tags); err != nil {
		return nil, fmt.Errorf("%w: tags of post %s: %v", common.ErrorIntegrity, post.ID, err)
	}
	return &post, nil
}

func whereClause(filter models.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.UserName != "" {
		args = append(args, filter.UserName)
		conds = append(conds, fmt.Sprintf("p.owner_username = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM post_tags t WHERE t.post_id = p.id AND t.tag = $%d)", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
