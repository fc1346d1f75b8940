package members

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service interface {
	CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error)
	GetMember(ctx context.Context, id string) (*Member, error)
	ListMembers(ctx context.Context, limit, offset int) ([]Member, int64, error)
	UpdateMember(ctx context.Context, id string, req UpdateMemberRequest) (*Member, error)
	DeleteMember(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	member := &Member{
		MemberID:   req.MemberID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		CouponCode: req.CouponCode,
		JoinedAt:   req.JoinedAt,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

func (s *service) GetMember(ctx context.Context, id string) (*Member, error) {
	memberUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid member ID: %w", err)
	}
	return s.repo.GetByID(ctx, memberUUID)
}

func (s *service) ListMembers(ctx context.Context, limit, offset int) ([]Member, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *service) UpdateMember(ctx context.Context, id string, req UpdateMemberRequest) (*Member, error) {
	memberUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid member ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.CouponCode != nil {
		updates["coupon_code"] = *req.CouponCode
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}

	if len(updates) == 0 {
		return s.repo.GetByID(ctx, memberUUID)
	}
	return s.repo.Update(ctx, memberUUID, updates)
}

func (s *service) DeleteMember(ctx context.Context, id string) error {
	memberUUID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid member ID: %w", err)
	}
	return s.repo.Delete(ctx, memberUUID)
}
