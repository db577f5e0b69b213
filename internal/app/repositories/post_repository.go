package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaan/connectsphere/internal/app/models"
	"github.com/kaan/connectsphere/internal/app/models/dto"
	"github.com/kaan/connectsphere/internal/pkg/apperrors"
	"github.com/kaan/connectsphere/internal/pkg/helpers"
	"github.com/kaan/connectsphere/internal/pkg/logger"
)

// PostListParams holds parameters for filtering and pagination.
// ViewerID/ViewerRole drive the visibility filter: role-gated posts are
// hidden from the other role and private posts from everyone but their
// author. Admins see everything.
type PostListParams struct {
	Type       *models.PostType
	AuthorID   *int64
	ViewerID   int64
	ViewerRole models.RoleType
	Page       int
	Size       int
}

// IPostRepository defines the interface for post database operations
type IPostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	GetAll(ctx context.Context, params PostListParams) ([]*models.Post, dto.PaginationInfo, error)
}

// PostRepository handles database operations for posts.
type PostRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostRepository) selectPostQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"p.id", "p.author_id", "p.title", "p.content", "p.post_type",
		"p.media_urls", "p.media_type", "p.target_skills", "p.visibility",
		"p.created_at", "p.updated_at",
		"u.first_name", "u.last_name",
	).From("posts p").
		Join("users u ON p.author_id = u.id")
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	var firstName, lastName string
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Type,
		&p.MediaURLs, &p.MediaType, &p.TargetSkills, &p.Visibility,
		&p.CreatedAt, &p.UpdatedAt,
		&firstName, &lastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		logger.Error().Err(err).Msg("Error scanning post row")
		return nil, err
	}
	p.Author = &models.User{ID: p.AuthorID, FirstName: firstName, LastName: lastName}
	return &p, nil
}

// Create inserts a new post and fills in its generated fields.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("posts").
		Columns("author_id", "title", "content", "post_type", "media_urls", "media_type",
			"target_skills", "visibility", "created_at", "updated_at").
		Values(post.AuthorID, post.Title, post.Content, post.Type, post.MediaURLs, post.MediaType,
			post.TargetSkills, post.Visibility, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create post SQL")
		return 0, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("authorID", post.AuthorID).Msg("Error executing create post query")
		return 0, err
	}

	return post.ID, nil
}

// GetByID retrieves a single post by its ID.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	sqlStr, args, err := r.selectPostQuery().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get post by ID SQL")
		return nil, err
	}

	return scanPost(r.db.QueryRow(ctx, sqlStr, args...))
}

// visibilityFilter restricts rows to those the viewer may see.
func visibilityFilter(params PostListParams) squirrel.Sqlizer {
	if params.ViewerRole == models.RoleAdmin {
		return nil
	}

	hiddenTypes := []models.PostType{models.PostTypeStudentOnly, models.PostTypeAlumniOnly}
	switch params.ViewerRole {
	case models.RoleStudent:
		hiddenTypes = []models.PostType{models.PostTypeAlumniOnly}
	case models.RoleAlumni:
		hiddenTypes = []models.PostType{models.PostTypeStudentOnly}
	}

	return squirrel.Or{
		squirrel.Eq{"p.author_id": params.ViewerID},
		squirrel.And{
			squirrel.NotEq{"p.visibility": models.VisibilityPrivate},
			squirrel.NotEq{"p.post_type": hiddenTypes},
		},
	}
}

// GetAll retrieves a paginated, filtered list of posts visible to the viewer.
func (r *PostRepository) GetAll(ctx context.Context, params PostListParams) ([]*models.Post, dto.PaginationInfo, error) {
	sqlBuilder := r.selectPostQuery()
	countBuilder := r.sb.Select("count(*)").From("posts p")

	if filter := visibilityFilter(params); filter != nil {
		sqlBuilder = sqlBuilder.Where(filter)
		countBuilder = countBuilder.Where(filter)
	}
	if params.Type != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"p.post_type": *params.Type})
		countBuilder = countBuilder.Where(squirrel.Eq{"p.post_type": *params.Type})
	}
	if params.AuthorID != nil {
		sqlBuilder = sqlBuilder.Where(squirrel.Eq{"p.author_id": *params.AuthorID})
		countBuilder = countBuilder.Where(squirrel.Eq{"p.author_id": *params.AuthorID})
	}

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building post count SQL")
		return nil, dto.PaginationInfo{}, err
	}

	var totalItems int64
	err = r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing post count query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*models.Post{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlBuilder = sqlBuilder.OrderBy("p.created_at DESC").Limit(uint64(limit)).Offset(offset)

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all posts SQL")
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all posts query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning one post during get all")
			continue
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through post rows")
		return nil, pagination, fmt.Errorf("database iteration error: %w", err)
	}

	return posts, pagination, nil
}

// Update mutates title, content, type and updated_at. author_id,
// media_urls and created_at are deliberately left out of the SET list.
// The stored updated_at is scanned back into the model so callers
// return the post-edit timestamp.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	sql, args, err := r.sb.Update("posts").
		Set("title", post.Title).
		Set("content", post.Content).
		Set("post_type", post.Type).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": post.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update post SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&post.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrPostNotFound
		}
		logger.Error().Err(err).Int64("postID", post.ID).Msg("Error executing update post query")
		return err
	}

	return nil
}
