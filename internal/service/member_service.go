package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"gym-service/internal/model"
	"gym-service/internal/policy"
	"gym-service/internal/repository"
)

var (
	ErrPlanNotFound      = errors.New("membership plan not found")
	ErrSecondArtRequired = errors.New("please select your second martial art before upgrading to the Advanced plan")
)

// Profile is the dashboard view of a member's plan state.
type Profile struct {
	User            *model.User `json:"user"`
	MembershipType  *string     `json:"membership_type,omitempty"`
	SessionsPerWeek *int        `json:"sessions_per_week,omitempty"`
	SessionsUsed    int         `json:"sessions_used_this_week"`
}

type MemberService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	ChoosePlan(ctx context.Context, userID, planID uuid.UUID, primaryArt, secondaryArt string) error
	ListPlans(ctx context.Context) ([]model.Membership, error)
}

type memberService struct {
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
}

func NewMemberService(userRepo repository.UserRepository, membershipRepo repository.MembershipRepository) MemberService {
	return &memberService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *memberService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	snapshot, err := s.userRepo.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:            user,
		MembershipType:  snapshot.MembershipType,
		SessionsPerWeek: snapshot.SessionsPerWeek,
		SessionsUsed:    snapshot.SessionsUsedThisWeek,
	}, nil
}

// ChoosePlan assigns a membership plan and the chosen art(s). Upgrading to the
// Advanced plan from basic or intermediate requires naming the second art; the
// repository keeps the current arts for any field left empty.
func (s *memberService) ChoosePlan(ctx context.Context, userID, planID uuid.UUID, primaryArt, secondaryArt string) error {
	plan, err := s.membershipRepo.FindByID(ctx, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}

	snapshot, err := s.userRepo.GetSnapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	currentTier := policy.NormalizeTier(deref(snapshot.MembershipType))
	selectedTier := policy.NormalizeTier(plan.Type)

	upgradingToAdvanced := selectedTier == policy.TierAdvanced &&
		(currentTier == policy.TierBasic || currentTier == policy.TierIntermediate)
	if upgradingToAdvanced && secondaryArt == "" && deref(snapshot.ChosenMartialArt2) == "" {
		return ErrSecondArtRequired
	}

	err = s.userRepo.UpdatePlan(ctx, userID, planID, primaryArt, secondaryArt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}

func (s *memberService) ListPlans(ctx context.Context) ([]model.Membership, error) {
	return s.membershipRepo.List(ctx)
}
