package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/members"
)

// MemberSource resolves a coupon code or numeric member id to a member
// record. Satisfied by the members repository.
type MemberSource interface {
	FindByCouponOrID(ctx context.Context, code string) (*members.Member, error)
}

// UsageSource answers whether a code was already consumed for an event.
// Satisfied by the bookings repository.
type UsageSource interface {
	MemberCodeUsed(ctx context.Context, eventID uuid.UUID, code string) (bool, error)
}

// Verifier implements the one-use-per-event membership check. A code
// verifies only if it matches exactly one member, the membership is
// current, and no committed booking for the event has consumed it.
type Verifier struct {
	members MemberSource
	usage   UsageSource
	now     func() time.Time
}

func NewVerifier(memberSource MemberSource, usage UsageSource) *Verifier {
	return &Verifier{
		members: memberSource,
		usage:   usage,
		now:     time.Now,
	}
}

// Verify never returns an error for a bad code; failed outcomes are
// carried in the result so the attendee can proceed unverified. The
// error return is reserved for store failures. The second return is the
// canonical coupon code, so a numeric member-id claim and the coupon
// code itself count as the same use.
func (v *Verifier) Verify(ctx context.Context, eventID uuid.UUID, code string) (VerificationResult, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return VerificationResult{Verified: false, Reason: ReasonInvalidCode}, "", nil
	}

	member, err := v.members.FindByCouponOrID(ctx, code)
	if err != nil {
		if errors.Is(err, members.ErrMemberNotFound) {
			return VerificationResult{Verified: false, Reason: ReasonInvalidCode}, "", nil
		}
		return VerificationResult{}, "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if !member.IsActive(v.now()) {
		return VerificationResult{Verified: false, Reason: ReasonExpired}, member.CouponCode, nil
	}

	used, err := v.usage.MemberCodeUsed(ctx, eventID, member.CouponCode)
	if err != nil {
		return VerificationResult{}, "", err
	}
	if used {
		return VerificationResult{Verified: false, Reason: ReasonAlreadyUsed}, member.CouponCode, nil
	}

	return VerificationResult{Verified: true, MemberName: member.Name}, member.CouponCode, nil
}
