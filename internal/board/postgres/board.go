package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/workhub/workspace-portal/internal/board"
	boardDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/board"
	postDatamodel "github.com/workhub/workspace-portal/internal/core/datamodel/post"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) board.RepositoryAPI {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) GetAll(ctx context.Context) ([]*boardDatamodel.Board, error) {
	var boards []*boardDatamodel.Board
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) GetActive(ctx context.Context) ([]*boardDatamodel.Board, error) {
	var boards []*boardDatamodel.Board
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) GetActiveReadable(ctx context.Context, roleID string) ([]*boardDatamodel.Board, error) {
	query := `SELECT b.* FROM boards b
	          JOIN board_access ba ON ba.board_id = b.id
	          WHERE ba.role_id = ? AND ba.can_read = true AND b.is_active = true
	          ORDER BY b.sort_order ASC, b.name ASC`

	var boards []*boardDatamodel.Board
	err := r.db.WithContext(ctx).Raw(query, roleID).Scan(&boards).Error
	return boards, err
}

func (r *BoardRepository) GetByID(ctx context.Context, id string) (*boardDatamodel.Board, error) {
	var b boardDatamodel.Board
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepository) Create(ctx context.Context, b *boardDatamodel.Board) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BoardRepository) Update(ctx context.Context, b *boardDatamodel.Board) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BoardRepository) CountPosts(ctx context.Context, boardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&postDatamodel.Post{}).
		Where("board_id = ?", boardID).
		Count(&count).Error
	return count, err
}

// DeleteCascade drops the board and its matrix rows atomically.
func (r *BoardRepository) DeleteCascade(ctx context.Context, boardID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&boardDatamodel.BoardAccess{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", boardID).Delete(&boardDatamodel.Board{}).Error
	})
}
