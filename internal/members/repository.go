package members

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMemberNotFound = errors.New("member not found")

type Repository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	List(ctx context.Context, limit, offset int) ([]Member, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByCouponOrID resolves a membership claim: the code matches
	// either a coupon code exactly or, when numeric, a member number.
	FindByCouponOrID(ctx context.Context, code string) (*Member, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, member *Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Member, int64, error) {
	var members []Member
	var total int64

	db := r.db.WithContext(ctx).Model(&Member{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("member_id ASC").Limit(limit).Offset(offset).Find(&members).Error
	return members, total, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Member, error) {
	result := r.db.WithContext(ctx).Model(&Member{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrMemberNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Member{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *repository) FindByCouponOrID(ctx context.Context, code string) (*Member, error) {
	var member Member

	query := r.db.WithContext(ctx)
	if memberID, err := strconv.ParseInt(code, 10, 64); err == nil {
		query = query.Where("coupon_code = ? OR member_id = ?", code, memberID)
	} else {
		query = query.Where("coupon_code = ?", code)
	}

	err := query.First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}
