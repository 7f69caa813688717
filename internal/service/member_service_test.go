package service_test

import (
	"context"
	"testing"
	"time"

	"gym-service/internal/model"
	"gym-service/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeMembershipRepo struct {
	plan *model.Membership
}

func (f *fakeMembershipRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	return f.plan, nil
}

func (f *fakeMembershipRepo) List(ctx context.Context) ([]model.Membership, error) {
	return []model.Membership{}, nil
}

func TestMemberService_ChoosePlan_UnknownPlan(t *testing.T) {
	svc := service.NewMemberService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeMembershipRepo{})

	err := svc.ChoosePlan(context.Background(), uuid.New(), uuid.New(), "Judo", "")
	require.ErrorIs(t, err, service.ErrPlanNotFound)
}

func TestMemberService_ChoosePlan_AdvancedUpgradeNeedsSecondArt(t *testing.T) {
	plan := &model.Membership{ID: uuid.New(), Type: "Advanced"}
	svc := service.NewMemberService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeMembershipRepo{plan: plan})

	err := svc.ChoosePlan(context.Background(), uuid.New(), plan.ID, "Judo", "")
	require.ErrorIs(t, err, service.ErrSecondArtRequired)

	err = svc.ChoosePlan(context.Background(), uuid.New(), plan.ID, "Judo", "Karate")
	require.NoError(t, err)
}

func TestMemberService_ChoosePlan_AdvancedUpgradeKeepsExistingSecondArt(t *testing.T) {
	snapshot := basicSnapshot()
	snapshot.ChosenMartialArt2 = strPtr("Karate")

	plan := &model.Membership{ID: uuid.New(), Type: "Advanced"}
	svc := service.NewMemberService(&fakeUserRepo{snapshot: snapshot}, &fakeMembershipRepo{plan: plan})

	// second art already on file, no need to resubmit it
	err := svc.ChoosePlan(context.Background(), uuid.New(), plan.ID, "", "")
	require.NoError(t, err)
}

func TestMemberService_ChoosePlan_EliteNeedsNoArts(t *testing.T) {
	plan := &model.Membership{ID: uuid.New(), Type: "Elite"}
	svc := service.NewMemberService(&fakeUserRepo{snapshot: basicSnapshot()}, &fakeMembershipRepo{plan: plan})

	err := svc.ChoosePlan(context.Background(), uuid.New(), plan.ID, "", "")
	require.NoError(t, err)
}

func TestMemberService_ChoosePlan_NewMemberStraightToAdvanced(t *testing.T) {
	snapshot := &model.MemberSnapshot{UserID: uuid.New(), CreatedAt: time.Now()}
	plan := &model.Membership{ID: uuid.New(), Type: "Advanced"}
	svc := service.NewMemberService(&fakeUserRepo{snapshot: snapshot}, &fakeMembershipRepo{plan: plan})

	// the second-art requirement only applies to basic/intermediate upgrades
	err := svc.ChoosePlan(context.Background(), uuid.New(), plan.ID, "Judo", "")
	require.NoError(t, err)
}
