package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	workspaceserrors "deskly/internal/workspaces/errors"
	"deskly/internal/workspaces/repository"
	"deskly/internal/workspaces/validator"
	"deskly/pkg/config"
	mongotx "deskly/pkg/db/mongo"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/logger"
	"deskly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWorkspaceRepository struct {
	createFunc      func(ctx context.Context, ws *model.Workspace) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Workspace, error)
	findByOwnerFunc func(ctx context.Context, ownerID string) ([]*model.Workspace, error)
	findAllFunc     func(ctx context.Context, filter repository.WorkspaceFilter, limit int, offset int64) ([]*model.Workspace, error)
	countFunc       func(ctx context.Context, filter repository.WorkspaceFilter) (int64, error)
	updateFunc      func(ctx context.Context, id string, ws *model.Workspace) error
}

func (m *mockWorkspaceRepository) Create(ctx context.Context, ws *model.Workspace) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, ws)
	}
	ws.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockWorkspaceRepository) FindByID(ctx context.Context, id string) (*model.Workspace, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, workspaceserrors.ErrNotFound
}

func (m *mockWorkspaceRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Workspace, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockWorkspaceRepository) FindAll(ctx context.Context, filter repository.WorkspaceFilter, limit int, offset int64) ([]*model.Workspace, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, filter, limit, offset)
	}
	return []*model.Workspace{}, nil
}

func (m *mockWorkspaceRepository) Count(ctx context.Context, filter repository.WorkspaceFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockWorkspaceRepository) Update(ctx context.Context, id string, ws *model.Workspace) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, ws)
	}
	return nil
}

func (m *mockWorkspaceRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func newTestService(repo repository.WorkspaceRepository) WorkspaceService {
	log := logger.Discard()
	cfg := &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
	return NewWorkspaceService(repo, validator.NewWorkspaceValidator(log), cfg)
}

func newWorkspace() *model.Workspace {
	return &model.Workspace{
		Name:      "  Canal   Loft ",
		City:      " Amsterdam ",
		Address:   "Prinsengracht 1",
		Capacity:  8,
		PriceUnit: model.PriceUnitHour,
		Price:     25,
	}
}

func TestCreate_OwnerBecomesWorkspaceOwner(t *testing.T) {
	var created *model.Workspace
	repo := &mockWorkspaceRepository{
		createFunc: func(_ context.Context, ws *model.Workspace) error {
			created = ws
			return nil
		},
	}
	svc := newTestService(repo)

	ws := newWorkspace()
	ws.OwnerID = "someone-else"
	err := svc.Create(context.Background(), model.Requester{ID: "owner-1", Role: model.RoleOwner}, ws)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.Equal(t, "Canal Loft", created.Name)
	assert.Equal(t, "Amsterdam", created.City)
}

func TestCreate_AdminMayAssignOwner(t *testing.T) {
	svc := newTestService(&mockWorkspaceRepository{})

	ws := newWorkspace()
	ws.OwnerID = "owner-7"
	require.NoError(t, svc.Create(context.Background(), model.Requester{ID: "admin-1", Role: model.RoleAdmin}, ws))
	assert.Equal(t, "owner-7", ws.OwnerID)
}

func TestCreate_GuestForbidden(t *testing.T) {
	svc := newTestService(&mockWorkspaceRepository{
		createFunc: func(context.Context, *model.Workspace) error {
			t.Fatal("repository must not be called")
			return nil
		},
	})

	err := svc.Create(context.Background(), model.Requester{ID: "g-1", Role: model.RoleGuest}, newWorkspace())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockWorkspaceRepository{})

	ws := newWorkspace()
	ws.PriceUnit = "fortnight"
	err := svc.Create(context.Background(), model.Requester{ID: "owner-1", Role: model.RoleOwner}, ws)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "price_unit")
}

func TestCreate_DuplicateNameInCity(t *testing.T) {
	repo := &mockWorkspaceRepository{
		findByOwnerFunc: func(context.Context, string) ([]*model.Workspace, error) {
			return []*model.Workspace{{ID: "ws-9", Name: "canal loft", City: "amsterdam"}}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), model.Requester{ID: "owner-1", Role: model.RoleOwner}, newWorkspace())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestCreate_StoreFailureIsInternal(t *testing.T) {
	repo := &mockWorkspaceRepository{
		createFunc: func(context.Context, *model.Workspace) error { return errors.New("disk full") },
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), model.Requester{ID: "owner-1", Role: model.RoleOwner}, newWorkspace())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestGetByID(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"not found", fmt.Errorf("%w: x", workspaceserrors.ErrNotFound), apperrors.CodeNotFound},
		{"invalid id", fmt.Errorf("%w: x", workspaceserrors.ErrInvalidID), apperrors.CodeInvalidInput},
		{"store down", errors.New("connection refused"), apperrors.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockWorkspaceRepository{
				findByIDFunc: func(context.Context, string) (*model.Workspace, error) { return nil, tt.repoErr },
			})
			_, err := svc.GetByID(context.Background(), "x")
			assert.True(t, apperrors.HasCode(err, tt.wantCode))
		})
	}
}

func TestGetAll_ConcurrentCountAndFind(t *testing.T) {
	var calls atomic.Int32
	repo := &mockWorkspaceRepository{
		countFunc: func(context.Context, repository.WorkspaceFilter) (int64, error) {
			calls.Add(1)
			time.Sleep(10 * time.Millisecond)
			return 42, nil
		},
		findAllFunc: func(_ context.Context, filter repository.WorkspaceFilter, limit int, offset int64) ([]*model.Workspace, error) {
			calls.Add(1)
			assert.Equal(t, "Berlin", filter.City)
			assert.Equal(t, 100, limit)
			assert.Equal(t, int64(0), offset)
			return []*model.Workspace{{ID: "1"}, {ID: "2"}}, nil
		},
	}
	svc := newTestService(repo)

	items, total, err := svc.GetAll(context.Background(), repository.WorkspaceFilter{City: " Berlin "}, 500, -4)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.Len(t, items, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetAll_CountFailure(t *testing.T) {
	svc := newTestService(&mockWorkspaceRepository{
		countFunc: func(context.Context, repository.WorkspaceFilter) (int64, error) { return 0, errors.New("boom") },
	})

	_, _, err := svc.GetAll(context.Background(), repository.WorkspaceFilter{}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestUpdate(t *testing.T) {
	existing := func() *model.Workspace {
		return &model.Workspace{
			ID: "ws-1", OwnerID: "owner-1", Name: "Canal Loft", City: "Amsterdam",
			Address: "Prinsengracht 1", PriceUnit: model.PriceUnitDay, Price: 100,
		}
	}
	price := 140.0
	instant := true

	tests := []struct {
		name      string
		requester model.Requester
		wantCode  string
	}{
		{"owner", model.Requester{ID: "owner-1", Role: model.RoleOwner}, ""},
		{"admin", model.Requester{ID: "admin-1", Role: model.RoleAdmin}, ""},
		{"other owner", model.Requester{ID: "owner-2", Role: model.RoleOwner}, apperrors.CodeForbidden},
		{"guest", model.Requester{ID: "guest-1", Role: model.RoleGuest}, apperrors.CodeForbidden},
		{"unknown role", model.Requester{ID: "owner-1", Role: "root"}, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved *model.Workspace
			svc := newTestService(&mockWorkspaceRepository{
				findByIDFunc: func(context.Context, string) (*model.Workspace, error) { return existing(), nil },
				updateFunc: func(_ context.Context, _ string, ws *model.Workspace) error {
					saved = ws
					return nil
				},
			})

			updated, err := svc.Update(context.Background(), tt.requester, "ws-1", &model.WorkspaceUpdate{
				Price:          &price,
				InstantBooking: &instant,
			})
			if tt.wantCode != "" {
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
				assert.Nil(t, saved)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 140.0, updated.Price)
			assert.True(t, updated.InstantBooking)
			assert.Equal(t, "Canal Loft", saved.Name)
		})
	}
}
