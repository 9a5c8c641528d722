package cases

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/shared"
)

type memoryCasesRepo struct {
	beneficiaries map[int64]BeneficiarySnapshot
	cases         map[int64]*Case
	nextID        int64
}

func newMemoryCasesRepo() *memoryCasesRepo {
	return &memoryCasesRepo{
		beneficiaries: map[int64]BeneficiarySnapshot{},
		cases:         map[int64]*Case{},
		nextID:        1,
	}
}

func (m *memoryCasesRepo) GetBeneficiarySnapshot(_ context.Context, beneficiaryID int64) (*BeneficiarySnapshot, error) {
	s, ok := m.beneficiaries[beneficiaryID]
	if !ok {
		return nil, fmt.Errorf("beneficiary %d: %w", beneficiaryID, shared.ErrNotFound)
	}
	return &s, nil
}

func (m *memoryCasesRepo) CreateCase(_ context.Context, c *Case) (*Case, error) {
	for _, existing := range m.cases {
		if existing.MeetingID == c.MeetingID && existing.BeneficiaryID == c.BeneficiaryID {
			return nil, fmt.Errorf("beneficiary %d already has a case in meeting %d: %w", c.BeneficiaryID, c.MeetingID, shared.ErrDuplicate)
		}
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	stored := *c
	m.cases[c.ID] = &stored
	return c, nil
}

func (m *memoryCasesRepo) GetCase(_ context.Context, id int64) (*Case, error) {
	c, ok := m.cases[id]
	if !ok {
		return nil, fmt.Errorf("case %d: %w", id, shared.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (m *memoryCasesRepo) ListCases(_ context.Context, filter ListFilter) ([]Case, error) {
	var out []Case
	for _, c := range m.cases {
		if filter.MeetingID != 0 && c.MeetingID != filter.MeetingID {
			continue
		}
		if filter.Classification != "" && c.Classification != filter.Classification {
			continue
		}
		if filter.UrgentOnly && !c.Urgent {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memoryCasesRepo) UpdateAllocation(_ context.Context, id, amount int64) error {
	c, ok := m.cases[id]
	if !ok {
		return fmt.Errorf("case %d: %w", id, shared.ErrNotFound)
	}
	c.AllocatedAmount = amount
	return nil
}

func (m *memoryCasesRepo) UpdateClassification(_ context.Context, id int64, class funds.Classification) error {
	c, ok := m.cases[id]
	if !ok {
		return fmt.Errorf("case %d: %w", id, shared.ErrNotFound)
	}
	c.Classification = class
	return nil
}

func (m *memoryCasesRepo) UpdateFollowup(_ context.Context, input UpdateFollowupInput) error {
	c, ok := m.cases[input.CaseID]
	if !ok {
		return fmt.Errorf("case %d: %w", input.CaseID, shared.ErrNotFound)
	}
	c.Status = input.Status
	c.DonationState = input.DonationState
	c.Report = input.Report
	return nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.calls++
	return nil
}

type fakeAudit struct {
	logs []shared.AuditLog
}

func (f *fakeAudit) Record(_ context.Context, log shared.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryCasesRepo, *fakeInvalidator, *fakeAudit) {
	t.Helper()
	repo := newMemoryCasesRepo()
	inv := &fakeInvalidator{}
	audit := &fakeAudit{}
	svc := NewService(repo, inv, audit, slog.Default())
	return svc, repo, inv, audit
}

func superuserCtx() context.Context {
	return shared.ContextWithIdentity(context.Background(), &shared.Identity{
		UserID:      7,
		Username:    "admin",
		IsSuperuser: true,
	})
}

func TestCreateCaseCopiesBeneficiarySnapshot(t *testing.T) {
	svc, repo, inv, _ := newTestService(t)
	communityID := int64(3)
	repo.beneficiaries[10] = BeneficiarySnapshot{
		LastName:      "Mbarga",
		GivenNames:    "Odile",
		Sex:           "F",
		MaritalStatus: "M",
		Profession:    "nurse",
		Children:      4,
		YearsInFaith:  12,
		CommunityID:   &communityID,
	}

	c, err := svc.CreateCase(context.Background(), CreateCaseInput{
		MeetingID:       1,
		BeneficiaryID:   10,
		SubmitterID:     5,
		Classification:  funds.ClassSocial,
		RequestedAmount: 50000,
		Description:     "school fees",
	})
	require.NoError(t, err)
	require.Equal(t, "Mbarga", c.LastName)
	require.Equal(t, "Odile", c.GivenNames)
	require.Equal(t, 4, c.Children)
	require.Equal(t, &communityID, c.CommunityID)
	require.Equal(t, StatusOpen, c.Status)
	require.Zero(t, c.AllocatedAmount)
	require.Equal(t, 1, inv.calls)

	// Later edits to the beneficiary record must not reach the stored case.
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Remarried", Children: 5}
	stored, err := svc.GetCase(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, "Mbarga", stored.LastName)
	require.Equal(t, 4, stored.Children)
}

func TestCreateCaseUrgentGetsFullRequestedAmount(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}

	c, err := svc.CreateCase(context.Background(), CreateCaseInput{
		MeetingID:       1,
		BeneficiaryID:   10,
		Classification:  funds.ClassMission,
		Urgent:          true,
		RequestedAmount: 30000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(30000), c.AllocatedAmount)
}

func TestCreateCaseValidation(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}

	tests := []struct {
		name  string
		input CreateCaseInput
	}{
		{"missing meeting", CreateCaseInput{BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 100}},
		{"missing beneficiary", CreateCaseInput{MeetingID: 1, Classification: funds.ClassSocial, RequestedAmount: 100}},
		{"zero requested", CreateCaseInput{MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial}},
		{"negative external", CreateCaseInput{MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 100, ExternalAmount: -1}},
		{"bad classification", CreateCaseInput{MeetingID: 1, BeneficiaryID: 10, Classification: "X", RequestedAmount: 100}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCase(context.Background(), tc.input)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestCreateCaseDuplicateBeneficiaryPerMeeting(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}

	input := CreateCaseInput{MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 100}
	_, err := svc.CreateCase(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.CreateCase(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrDuplicate)

	// The same beneficiary at another meeting is fine.
	input.MeetingID = 2
	_, err = svc.CreateCase(context.Background(), input)
	require.NoError(t, err)
}

func TestSetAllocation(t *testing.T) {
	svc, repo, inv, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}
	c, err := svc.CreateCase(context.Background(), CreateCaseInput{
		MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 60000,
	})
	require.NoError(t, err)
	inv.calls = 0

	updated, err := svc.SetAllocation(context.Background(), c.ID, 45000)
	require.NoError(t, err)
	require.Equal(t, int64(45000), updated.AllocatedAmount)
	require.Equal(t, 1, inv.calls)

	_, err = svc.SetAllocation(context.Background(), c.ID, -1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSetAllocationUrgentPinnedToRequested(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}
	c, err := svc.CreateCase(context.Background(), CreateCaseInput{
		MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial,
		Urgent: true, RequestedAmount: 30000,
	})
	require.NoError(t, err)

	_, err = svc.SetAllocation(context.Background(), c.ID, 20000)
	require.ErrorIs(t, err, shared.ErrValidation)

	// Re-affirming the requested amount is allowed.
	updated, err := svc.SetAllocation(context.Background(), c.ID, 30000)
	require.NoError(t, err)
	require.Equal(t, int64(30000), updated.AllocatedAmount)
}

func TestChangeClassificationRequiresSuperuser(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}
	c, err := svc.CreateCase(context.Background(), CreateCaseInput{
		MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 100,
	})
	require.NoError(t, err)

	_, err = svc.ChangeClassification(context.Background(), c.ID, funds.ClassMission)
	require.ErrorIs(t, err, shared.ErrForbidden)

	regular := shared.ContextWithIdentity(context.Background(), &shared.Identity{UserID: 2, Username: "clerk"})
	_, err = svc.ChangeClassification(regular, c.ID, funds.ClassMission)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestChangeClassificationAuditsTheMove(t *testing.T) {
	svc, repo, inv, audit := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}
	c, err := svc.CreateCase(context.Background(), CreateCaseInput{
		MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 100,
	})
	require.NoError(t, err)
	inv.calls = 0

	updated, err := svc.ChangeClassification(superuserCtx(), c.ID, funds.ClassMission)
	require.NoError(t, err)
	require.Equal(t, funds.ClassMission, updated.Classification)
	require.Equal(t, 1, inv.calls)
	require.Len(t, audit.logs, 1)
	require.Equal(t, "case.reclassify", audit.logs[0].Action)
	require.Equal(t, int64(7), audit.logs[0].ActorID)
	require.Equal(t, "S", audit.logs[0].Meta["from"])
	require.Equal(t, "M", audit.logs[0].Meta["to"])

	// Same classification is a no-op with no audit entry.
	_, err = svc.ChangeClassification(superuserCtx(), c.ID, funds.ClassMission)
	require.NoError(t, err)
	require.Len(t, audit.logs, 1)
}

func TestUpdateFollowup(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "Essomba"}
	c, err := svc.CreateCase(context.Background(), CreateCaseInput{
		MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 100,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFollowup(context.Background(), UpdateFollowupInput{
		CaseID:        c.ID,
		Status:        StatusClosed,
		DonationState: DonationGiven,
		Report:        "handed over on 2026-08-12",
	})
	require.NoError(t, err)
	require.Equal(t, StatusClosed, updated.Status)
	require.Equal(t, DonationGiven, updated.DonationState)

	_, err = svc.UpdateFollowup(context.Background(), UpdateFollowupInput{CaseID: c.ID, Status: "Z"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.UpdateFollowup(context.Background(), UpdateFollowupInput{CaseID: c.ID, Status: StatusOpen, DonationState: "Z"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestListCasesFilters(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.beneficiaries[10] = BeneficiarySnapshot{LastName: "A"}
	repo.beneficiaries[11] = BeneficiarySnapshot{LastName: "B"}
	repo.beneficiaries[12] = BeneficiarySnapshot{LastName: "C"}

	_, err := svc.CreateCase(context.Background(), CreateCaseInput{MeetingID: 1, BeneficiaryID: 10, Classification: funds.ClassSocial, RequestedAmount: 100})
	require.NoError(t, err)
	_, err = svc.CreateCase(context.Background(), CreateCaseInput{MeetingID: 1, BeneficiaryID: 11, Classification: funds.ClassMission, Urgent: true, RequestedAmount: 200})
	require.NoError(t, err)
	_, err = svc.CreateCase(context.Background(), CreateCaseInput{MeetingID: 2, BeneficiaryID: 12, Classification: funds.ClassSocial, RequestedAmount: 300})
	require.NoError(t, err)

	list, err := svc.ListCases(context.Background(), ListFilter{MeetingID: 1})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = svc.ListCases(context.Background(), ListFilter{Classification: funds.ClassSocial})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = svc.ListCases(context.Background(), ListFilter{UrgentOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(200), list[0].RequestedAmount)
}
