package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	workspaceserrors "deskly/internal/workspaces/errors"
	"deskly/internal/workspaces/repository"
	"deskly/internal/workspaces/validator"
	"deskly/pkg/config"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/model"
	"deskly/pkg/sanitizer"
)

type WorkspaceService interface {
	Create(ctx context.Context, requester model.Requester, ws *model.Workspace) error
	GetByID(ctx context.Context, id string) (*model.Workspace, error)
	GetAll(ctx context.Context, filter repository.WorkspaceFilter, limit int, offset int64) ([]*model.Workspace, int64, error)
	Update(ctx context.Context, requester model.Requester, id string, updates *model.WorkspaceUpdate) (*model.Workspace, error)
}

type workspaceService struct {
	repo      repository.WorkspaceRepository
	validator *validator.WorkspaceValidator
	cfg       *config.Config
}

func NewWorkspaceService(
	repo repository.WorkspaceRepository,
	validator *validator.WorkspaceValidator,
	cfg *config.Config,
) WorkspaceService {
	return &workspaceService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *workspaceService) Create(ctx context.Context, requester model.Requester, ws *model.Workspace) error {
	switch requester.Role {
	case model.RoleOwner:
		ws.OwnerID = requester.ID
	case model.RoleAdmin:
		if ws.OwnerID == "" {
			ws.OwnerID = requester.ID
		}
	case model.RoleGuest:
		return apperrors.Forbidden("Only workspace owners can create workspaces")
	default:
		return apperrors.Forbidden(fmt.Sprintf("Role %q cannot create workspaces", requester.Role))
	}

	s.sanitize(ws)

	if err := s.validator.Validate(ws); err != nil {
		s.cfg.Log.Warn("Workspace validation failed",
			"name", ws.Name,
			"owner_id", ws.OwnerID,
			"error", err,
		)
		return validationError(err)
	}

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByOwner(txCtx, ws.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}

		for _, other := range existing {
			if isDuplicate(ws, other) {
				return apperrors.Conflict(fmt.Sprintf(
					"Workspace with the same name already exists in %s (id: %s)",
					other.City, other.ID,
				))
			}
		}

		if err := s.repo.Create(txCtx, ws); err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.cfg.Log.Error("Failed to create workspace",
			"name", ws.Name,
			"owner_id", ws.OwnerID,
			"error", err,
		)
		return apperrors.Internal("Failed to create workspace", err)
	}

	s.cfg.Log.Info("Workspace created successfully",
		"id", ws.ID,
		"name", ws.Name,
		"owner_id", ws.OwnerID,
		"price_unit", ws.PriceUnit,
	)
	return nil
}

func (s *workspaceService) GetByID(ctx context.Context, id string) (*model.Workspace, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Workspace ID cannot be empty")
	}

	ws, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, workspaceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Workspace", id)
		}
		if errors.Is(err, workspaceserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid workspace ID format")
		}
		s.cfg.Log.Error("Failed to get workspace by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Unavailable("Workspace store", err)
	}

	return ws, nil
}

func (s *workspaceService) GetAll(ctx context.Context, filter repository.WorkspaceFilter, limit int, offset int64) ([]*model.Workspace, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = max(0, offset)
	filter.City = sanitizer.NormalizeCity(filter.City)

	var count int64
	var workspaces []*model.Workspace
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count workspaces", "error", err)
			errCount = apperrors.Internal("Failed to count workspaces", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		workspaces, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get workspaces",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve workspaces", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return workspaces, count, nil
}

func (s *workspaceService) Update(ctx context.Context, requester model.Requester, id string, updates *model.WorkspaceUpdate) (*model.Workspace, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeManage(requester, existing); err != nil {
		return nil, err
	}

	s.sanitizeUpdate(updates)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validationError(err)
	}

	merged := mergeUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Workspace validation failed",
			"id", id,
			"name", merged.Name,
			"error", err,
		)
		return nil, validationError(err)
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, workspaceserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Workspace", id)
		}
		s.cfg.Log.Error("Failed to update workspace",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update workspace", err)
	}

	s.cfg.Log.Info("Workspace updated successfully",
		"id", id,
		"requester_id", requester.ID,
	)
	return merged, nil
}

func authorizeManage(requester model.Requester, ws *model.Workspace) error {
	switch requester.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleOwner, model.RoleGuest:
		if requester.ID == ws.OwnerID {
			return nil
		}
		return apperrors.Forbidden("Only the workspace owner can modify this workspace")
	default:
		return apperrors.Forbidden(fmt.Sprintf("Role %q cannot modify workspaces", requester.Role))
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Workspace validation failed", verrs.Details())
	}
	return apperrors.Validation("Workspace validation failed", map[string]any{
		"error": err.Error(),
	})
}

func isDuplicate(candidate, existing *model.Workspace) bool {
	return strings.EqualFold(candidate.Name, existing.Name) &&
		strings.EqualFold(candidate.City, existing.City)
}

func (s *workspaceService) sanitize(ws *model.Workspace) {
	ws.Name = sanitizer.NormalizeName(ws.Name)
	ws.City = sanitizer.NormalizeCity(ws.City)
	ws.Address = sanitizer.TrimAndNormalize(ws.Address)
	ws.Description = sanitizer.NormalizeText(ws.Description)
}

func (s *workspaceService) sanitizeUpdate(updates *model.WorkspaceUpdate) {
	if updates.Name != "" {
		updates.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.City != "" {
		updates.City = sanitizer.NormalizeCity(updates.City)
	}
	if updates.Address != "" {
		updates.Address = sanitizer.TrimAndNormalize(updates.Address)
	}
	if updates.Description != "" {
		updates.Description = sanitizer.NormalizeText(updates.Description)
	}
}

func mergeUpdates(existing *model.Workspace, updates *model.WorkspaceUpdate) *model.Workspace {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.PriceUnit != "" {
		merged.PriceUnit = updates.PriceUnit
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.InstantBooking != nil {
		merged.InstantBooking = *updates.InstantBooking
	}

	return &merged
}
