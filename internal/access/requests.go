package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/request"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/role"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// SubmitInput is the access request form.
type SubmitInput struct {
	UserID string `validate:"required,max=36"`
	Email  string `validate:"omitempty,email,max=255"`
	App    string `validate:"required,max=16"`
	Role   string `validate:"required,max=32"`
}

// Submit stores a pending request of in.UserID for in.Role in in.App.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.AccessRequest, error) {
	in.App = strings.ToLower(strings.TrimSpace(in.App))

	if err := s.validate.Struct(in); err != nil {
		s.metrics.submitted(in.App, "invalid")

		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	app, err := catalog.Lookup(in.App)
	if err != nil {
		s.metrics.submitted("unknown", "invalid")

		return nil, err
	}

	r, err := app.ParseRequestable(in.Role)
	if err != nil {
		s.metrics.submitted(string(app.Name), "invalid")

		return nil, err
	}

	req := &models.AccessRequest{
		UserID:        in.UserID,
		Email:         in.Email,
		App:           string(app.Name),
		RequestedRole: string(r),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		held, err := role.Get(ctx, tx, in.UserID, string(app.Name))

		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrAlreadyHasRole, held.Role)
		case !errors.Is(err, role.ErrRoleNotFound):
			return err
		}

		if err := request.Create(ctx, tx, req); err != nil {
			return err
		}

		return request.RecordEvent(ctx, tx, &models.ApprovalEvent{
			RequestID: req.ID,
			UserID:    req.UserID,
			Actor:     req.UserID,
			Action:    models.ActionSubmit,
			App:       req.App,
			Role:      req.RequestedRole,
		})
	})
	if err != nil {
		s.metrics.submitted(string(app.Name), outcome(err))

		return nil, err
	}

	s.metrics.submitted(string(app.Name), "created")
	log.Info().Str("user", req.UserID).Str("app", req.App).Str("role", req.RequestedRole).
		Str("request", req.ID).Msg("access request submitted")

	return req, nil
}

// PendingFor returns the pending request of userID for app, nil if there is none.
func (s *Service) PendingFor(ctx context.Context, userID string, app *catalog.Application) (*models.AccessRequest, error) {
	r, err := request.Pending(ctx, s.db, userID, string(app.Name))
	if errors.Is(err, request.ErrRequestNotFound) {
		return nil, nil //nolint:nilnil
	}

	return r, err
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrRequestAlreadyPending):
		return "duplicate"
	case errors.Is(err, ErrAlreadyHasRole):
		return "has_role"
	default:
		return "error"
	}
}
