package partners

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/pagination"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

type fakeAPI struct {
	listFn     func(filter upstream.PartnerListFilter, p pagination.Params) ([]upstream.Partner, error)
	getFn      func(partnerID string) (*upstream.Partner, error)
	createFn   func(payload upstream.PartnerPayload) (*upstream.Partner, error)
	updateFn   func(partnerID string, payload upstream.PartnerPayload) (*upstream.Partner, error)
	approvalFn func(partnerID string, approved bool) (*upstream.Partner, error)

	createCalls int
	updateCalls int
}

func (f *fakeAPI) ListPartners(_ context.Context, _ string, filter upstream.PartnerListFilter, p pagination.Params) ([]upstream.Partner, error) {
	return f.listFn(filter, p)
}

func (f *fakeAPI) GetPartner(_ context.Context, _, partnerID string) (*upstream.Partner, error) {
	return f.getFn(partnerID)
}

func (f *fakeAPI) CreatePartner(_ context.Context, _ string, payload upstream.PartnerPayload) (*upstream.Partner, error) {
	f.createCalls++
	return f.createFn(payload)
}

func (f *fakeAPI) UpdatePartner(_ context.Context, _, partnerID string, payload upstream.PartnerPayload) (*upstream.Partner, error) {
	f.updateCalls++
	return f.updateFn(partnerID, payload)
}

func (f *fakeAPI) SetPartnerApproval(_ context.Context, _, partnerID string, approved bool) (*upstream.Partner, error) {
	return f.approvalFn(partnerID, approved)
}

func samplePartner(id string) upstream.Partner {
	recipient := "re_123"
	return upstream.Partner{
		ID:           id,
		Name:         "Agência Horizonte",
		Email:        "contato@horizonte.com",
		Approved:     true,
		HasAffiliate: true,
		RecipientID:  &recipient,
		CreatedAt:    time.Date(2026, 2, 5, 11, 0, 0, 0, time.UTC),
	}
}

func TestListForwardsSupersetFilter(t *testing.T) {
	hasAffiliate := false
	var seen upstream.PartnerListFilter
	api := &fakeAPI{
		listFn: func(filter upstream.PartnerListFilter, _ pagination.Params) ([]upstream.Partner, error) {
			seen = filter
			return []upstream.Partner{samplePartner("p-1")}, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	filter := upstream.PartnerListFilter{
		Query:        "horizonte",
		ApprovedOnly: true,
		City:         "Gramado",
		HasAffiliate: &hasAffiliate,
	}
	vm, err := service.List(context.Background(), "token", filter, pagination.Params{Limit: 20})
	require.NoError(t, err)
	require.Len(t, vm.Rows, 1)

	assert.Equal(t, "horizonte", seen.Query)
	assert.True(t, seen.ApprovedOnly)
	require.NotNil(t, seen.HasAffiliate)
	assert.False(t, *seen.HasAffiliate)
	assert.True(t, vm.Rows[0].HasRecipient)
}

func TestCreateValidatesBeforeUpstream(t *testing.T) {
	tests := []struct {
		name string
		form PartnerForm
	}{
		{"missing name", PartnerForm{Email: "ok@example.com"}},
		{"bad email", PartnerForm{Name: "Agência", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			service := NewService(api, toast.NewQueue(time.Minute))

			_, err := service.Create(context.Background(), "token", "sess-1", tt.form)
			appErr, ok := common.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, common.CodeValidation, appErr.Code)
			assert.Zero(t, api.createCalls)
		})
	}
}

func TestCreateTrimsAndForwards(t *testing.T) {
	api := &fakeAPI{
		createFn: func(payload upstream.PartnerPayload) (*upstream.Partner, error) {
			assert.Equal(t, "Agência Horizonte", payload.Name)
			assert.Equal(t, "contato@horizonte.com", payload.Email)
			return func() *upstream.Partner { p := samplePartner("p-9"); return &p }(), nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	form := PartnerForm{Name: "  Agência Horizonte  ", Email: " contato@horizonte.com "}
	vm, err := service.Create(context.Background(), "token", "sess-1", form)
	require.NoError(t, err)
	assert.Equal(t, "p-9", vm.ID)
}

func TestCreateRejectsWhitespaceOnlyName(t *testing.T) {
	api := &fakeAPI{
		createFn: func(upstream.PartnerPayload) (*upstream.Partner, error) {
			t.Fatal("upstream create should not be reached")
			return nil, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	// padding must not count toward min=2
	form := PartnerForm{Name: "   ", Email: "contato@horizonte.com"}
	_, err := service.Create(context.Background(), "token", "sess-1", form)

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeValidation, appErr.Code)
}

func TestUpdateSurfacesUpstreamConflict(t *testing.T) {
	api := &fakeAPI{
		updateFn: func(string, upstream.PartnerPayload) (*upstream.Partner, error) {
			return nil, common.NewConflictError("e-mail já cadastrado")
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	form := PartnerForm{Name: "Agência", Email: "contato@horizonte.com"}
	_, err := service.Update(context.Background(), "token", "sess-1", "p-1", form)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeConflict, appErr.Code)
	assert.Equal(t, "e-mail já cadastrado", appErr.Message)
}

func TestSetApprovalBuildsRow(t *testing.T) {
	api := &fakeAPI{
		approvalFn: func(partnerID string, approved bool) (*upstream.Partner, error) {
			p := samplePartner(partnerID)
			p.Approved = approved
			return &p, nil
		},
	}
	service := NewService(api, toast.NewQueue(time.Minute))

	vm, err := service.SetApproval(context.Background(), "token", "sess-1", "p-1", false)
	require.NoError(t, err)
	assert.False(t, vm.Approved)
	assert.Equal(t, "Pendente", vm.ApprovalBadge.Label)
}
