package members

import (
	"time"

	"github.com/google/uuid"
)

// Member is a verification source for attendee membership claims; the
// booking flow only ever reads it.
type Member struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MemberID   int64      `json:"member_id" gorm:"uniqueIndex;not null"`
	Name       string     `json:"name" gorm:"not null;size:255"`
	Email      string     `json:"email" gorm:"size:255"`
	Phone      string     `json:"phone" gorm:"size:50"`
	CouponCode string     `json:"coupon_code" gorm:"uniqueIndex;not null;size:64"`
	JoinedAt   time.Time  `json:"joined_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// IsActive reports whether the membership is current.
func (m *Member) IsActive(now time.Time) bool {
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}

type CreateMemberRequest struct {
	MemberID   int64      `json:"member_id" binding:"required,min=1"`
	Name       string     `json:"name" binding:"required,min=2,max=255"`
	Email      string     `json:"email" binding:"omitempty,email"`
	Phone      string     `json:"phone" binding:"omitempty,max=50"`
	CouponCode string     `json:"coupon_code" binding:"required,min=4,max=64"`
	JoinedAt   time.Time  `json:"joined_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type UpdateMemberRequest struct {
	Name       *string    `json:"name" binding:"omitempty,min=2,max=255"`
	Email      *string    `json:"email" binding:"omitempty,email"`
	Phone      *string    `json:"phone" binding:"omitempty,max=50"`
	CouponCode *string    `json:"coupon_code" binding:"omitempty,min=4,max=64"`
	ExpiresAt  *time.Time `json:"expires_at"`
}
