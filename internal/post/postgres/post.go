package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	postDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/post"
	"github.com/workhub/workspace-portal/internal/post"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) post.RepositoryAPI {
	return &PostRepository{db: db}
}

func (r *PostRepository) GetByBoard(ctx context.Context, boardID string) ([]*postDatamodel.Post, error) {
	var posts []*postDatamodel.Post
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*postDatamodel.Post, error) {
	var p postDatamodel.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *postDatamodel.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&postDatamodel.Post{}).Error
}
