package bookings

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/members"
)

type fakeMemberSource struct {
	byCode map[string]*members.Member
	err    error
}

func (f *fakeMemberSource) FindByCouponOrID(ctx context.Context, code string) (*members.Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.byCode[code]; ok {
		return m, nil
	}
	if id, err := strconv.ParseInt(code, 10, 64); err == nil {
		for _, m := range f.byCode {
			if m.MemberID == id {
				return m, nil
			}
		}
	}
	return nil, members.ErrMemberNotFound
}

type fakeUsageSource struct {
	used map[string]bool // "{eventID}/{code}"
	err  error
}

func (f *fakeUsageSource) MemberCodeUsed(ctx context.Context, eventID uuid.UUID, code string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.used[eventID.String()+"/"+code], nil
}

func testVerifier(memberList []*members.Member, used map[string]bool) *Verifier {
	byCode := make(map[string]*members.Member)
	for _, m := range memberList {
		byCode[m.CouponCode] = m
	}
	v := NewVerifier(&fakeMemberSource{byCode: byCode}, &fakeUsageSource{used: used})
	v.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return v
}

func TestVerifierOutcomes(t *testing.T) {
	expired := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	otherEvent := uuid.New()

	memberList := []*members.Member{
		{MemberID: 1001, Name: "Maya", CouponCode: "GOLD-MAYA", ExpiresAt: &current},
		{MemberID: 1002, Name: "Jon", CouponCode: "LIFE-JON"},
		{MemberID: 1003, Name: "Rita", CouponCode: "GOLD-RITA", ExpiresAt: &expired},
	}
	used := map[string]bool{eventID.String() + "/LIFE-JON": true}

	tests := []struct {
		name          string
		eventID       uuid.UUID
		code          string
		wantVerified  bool
		wantReason    string
		wantCanonical string
		wantName      string
	}{
		{
			name:          "coupon code verifies",
			eventID:       eventID,
			code:          "GOLD-MAYA",
			wantVerified:  true,
			wantCanonical: "GOLD-MAYA",
			wantName:      "Maya",
		},
		{
			name:          "numeric member id maps to the same coupon",
			eventID:       eventID,
			code:          "1001",
			wantVerified:  true,
			wantCanonical: "GOLD-MAYA",
			wantName:      "Maya",
		},
		{
			name:          "no expiry means lifetime membership",
			eventID:       otherEvent,
			code:          "LIFE-JON",
			wantVerified:  true,
			wantCanonical: "LIFE-JON",
			wantName:      "Jon",
		},
		{
			name:       "empty code is invalid",
			eventID:    eventID,
			code:       "   ",
			wantReason: ReasonInvalidCode,
		},
		{
			name:       "unknown code is invalid",
			eventID:    eventID,
			code:       "NOPE-123",
			wantReason: ReasonInvalidCode,
		},
		{
			name:          "expired membership",
			eventID:       eventID,
			code:          "GOLD-RITA",
			wantReason:    ReasonExpired,
			wantCanonical: "GOLD-RITA",
		},
		{
			name:          "code already consumed for this event",
			eventID:       eventID,
			code:          "LIFE-JON",
			wantReason:    ReasonAlreadyUsed,
			wantCanonical: "LIFE-JON",
		},
		{
			name:          "same code is fresh for a different event",
			eventID:       otherEvent,
			code:          "1002",
			wantVerified:  true,
			wantCanonical: "LIFE-JON",
			wantName:      "Jon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testVerifier(memberList, used)

			result, canonical, err := v.Verify(context.Background(), tt.eventID, tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.wantVerified, result.Verified)
			assert.Equal(t, tt.wantReason, result.Reason)
			assert.Equal(t, tt.wantCanonical, canonical)
			assert.Equal(t, tt.wantName, result.MemberName)
		})
	}
}

func TestVerifierStoreFailure(t *testing.T) {
	v := NewVerifier(&fakeMemberSource{err: errors.New("connection refused")}, &fakeUsageSource{})

	_, _, err := v.Verify(context.Background(), uuid.New(), "GOLD-MAYA")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
