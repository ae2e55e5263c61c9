package repository

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"gorm.io/gorm"
)

// MatchRepository 对局仓储接口
type MatchRepository interface {
	BaseRepository
	Create(ctx context.Context, match *models.Match) error
	Update(ctx context.Context, match *models.Match) error
	UpdateFields(ctx context.Context, matchID string, fields map[string]interface{}) error
	FindByMatchID(ctx context.Context, matchID string) (*models.Match, error)
	FindByRoomCode(ctx context.Context, roomCode string) (*models.Match, error)
	ListFinishedByPlayer(ctx context.Context, uid string, pagination *Pagination) ([]*models.Match, error)
	RoomCodeExists(ctx context.Context, roomCode string) (bool, error)
}

// matchRepo 对局仓储实现
type matchRepo struct {
	*BaseRepo
}

// NewMatchRepository 创建对局仓储
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建对局
func (r *matchRepo) Create(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// Update 更新对局
func (r *matchRepo) Update(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Save(match).Error
}

// UpdateFields 按字段更新对局
func (r *matchRepo) UpdateFields(ctx context.Context, matchID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("match_id = ?", matchID).
		Updates(fields).Error
}

// FindByMatchID 根据对局ID查找
func (r *matchRepo) FindByMatchID(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrRoomNotFound, "对局不存在")
		}
		return nil, err
	}
	return &match, nil
}

// FindByRoomCode 根据房间码查找（大小写不敏感，码存储为大写）
func (r *matchRepo) FindByRoomCode(ctx context.Context, roomCode string) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Where("room_code = ?", strings.ToUpper(roomCode)).
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrRoomNotFound, "房间不存在")
		}
		return nil, err
	}
	return &match, nil
}

// ListFinishedByPlayer 列出玩家已结束的对局（新到旧）
func (r *matchRepo) ListFinishedByPlayer(ctx context.Context, uid string, pagination *Pagination) ([]*models.Match, error) {
	var matches []*models.Match
	query := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("status = ?", models.MatchFinished).
		Where("players LIKE ?", "%\""+uid+"\"%")

	var total int64
	query.Count(&total)
	pagination.Total = total

	err := query.
		Scopes(Paginate(pagination)).
		Order("last_move_at DESC").
		Find(&matches).Error
	return matches, err
}

// RoomCodeExists 检查房间码是否已被占用
func (r *matchRepo) RoomCodeExists(ctx context.Context, roomCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("room_code = ?", strings.ToUpper(roomCode)).
		Count(&count).Error
	return count > 0, err
}
