package access

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/request"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/role"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// ActorCLI marks grants made from the command line.
const ActorCLI = "cli"

// ListFilter selects the console view.
type ListFilter string

const (
	// ListPending shows undecided requests.
	ListPending ListFilter = "pending"
	// ListAll shows every request.
	ListAll ListFilter = "all"
)

// ParseListFilter maps a query value to a filter. Anything unknown is pending.
func ParseListFilter(v string) ListFilter {
	if ListFilter(v) == ListAll {
		return ListAll
	}

	return ListPending
}

// List returns requests for the console.
func (s *Service) List(ctx context.Context, actor string, f ListFilter) ([]models.AccessRequest, error) {
	if err := s.requireSuperAdmin(ctx, s.db, actor); err != nil {
		return nil, err
	}

	var filter request.Filter
	if f != ListAll {
		filter.Status = models.RequestPending
	}

	return request.List(ctx, s.db, filter)
}

// Events returns the audit trail of a request.
func (s *Service) Events(ctx context.Context, actor, requestID string) ([]models.ApprovalEvent, error) {
	if err := s.requireSuperAdmin(ctx, s.db, actor); err != nil {
		return nil, err
	}

	return request.Events(ctx, s.db, requestID)
}

// DecisionInput is the approve/reject/delete form.
type DecisionInput struct {
	Actor     string `validate:"required"`
	RequestID string `validate:"required,uuid"`
	Role      string `validate:"omitempty,max=32"`
}

// Approve grants in.Role to the requester in one transaction:
// profile ensured, role upserted, request approved, event recorded.
// An empty role grants the requested one.
func (s *Service) Approve(ctx context.Context, in DecisionInput) (*models.AccessRequest, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var approved *models.AccessRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireSuperAdmin(ctx, tx, in.Actor); err != nil {
			return err
		}

		r, err := request.Get(ctx, tx, in.RequestID)
		if err != nil {
			return err
		}

		if r.Status != models.RequestPending {
			return ErrRequestNotPending
		}

		app, err := catalog.Lookup(r.App)
		if err != nil {
			return err
		}

		want := in.Role
		if want == "" {
			want = r.RequestedRole
		}

		granted, err := app.ParseRequestable(want)
		if err != nil {
			return err
		}

		if err = profile.Ensure(ctx, tx, r.UserID, r.Email); err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}

		if err = role.Upsert(ctx, tx, r.UserID, string(app.Name), string(granted), in.Actor); err != nil {
			return fmt.Errorf("upsert role: %w", err)
		}

		approved, err = request.Decide(ctx, tx, r.ID, models.RequestApproved, string(granted), in.Actor)
		if err != nil {
			return err
		}

		return request.RecordEvent(ctx, tx, &models.ApprovalEvent{
			RequestID: r.ID,
			UserID:    r.UserID,
			Actor:     in.Actor,
			Action:    models.ActionApprove,
			App:       r.App,
			Role:      string(granted),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.decided(approved.App, string(models.ActionApprove))
	log.Info().Str("actor", in.Actor).Str("request", approved.ID).Str("user", approved.UserID).
		Str("app", approved.App).Str("role", approved.GrantedRole).Msg("access request approved")

	return approved, nil
}

// Reject marks a pending request rejected. The role store is not touched.
func (s *Service) Reject(ctx context.Context, in DecisionInput) (*models.AccessRequest, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var rejected *models.AccessRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireSuperAdmin(ctx, tx, in.Actor); err != nil {
			return err
		}

		r, err := request.Decide(ctx, tx, in.RequestID, models.RequestRejected, "", in.Actor)
		if err != nil {
			return err
		}

		rejected = r

		return request.RecordEvent(ctx, tx, &models.ApprovalEvent{
			RequestID: r.ID,
			UserID:    r.UserID,
			Actor:     in.Actor,
			Action:    models.ActionReject,
			App:       r.App,
			Role:      r.RequestedRole,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.decided(rejected.App, string(models.ActionReject))
	log.Info().Str("actor", in.Actor).Str("request", rejected.ID).Msg("access request rejected")

	return rejected, nil
}

// Delete hard deletes a request in any state. The event trail keeps a delete entry.
func (s *Service) Delete(ctx context.Context, in DecisionInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var app string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireSuperAdmin(ctx, tx, in.Actor); err != nil {
			return err
		}

		r, err := request.Get(ctx, tx, in.RequestID)
		if err != nil {
			return err
		}

		app = r.App

		if err = request.Delete(ctx, tx, r.ID); err != nil {
			return err
		}

		return request.RecordEvent(ctx, tx, &models.ApprovalEvent{
			RequestID: r.ID,
			UserID:    r.UserID,
			Actor:     in.Actor,
			Action:    models.ActionDelete,
			App:       r.App,
			Role:      r.RequestedRole,
			Note:      "status was " + string(r.Status),
		})
	})
	if err != nil {
		return err
	}

	s.metrics.decided(app, string(models.ActionDelete))
	log.Info().Str("actor", in.Actor).Str("request", in.RequestID).Msg("access request deleted")

	return nil
}

// Grant assigns any role of the application, superadmin included, without a request.
// It is the operator path and skips the super-admin check.
func (s *Service) Grant(ctx context.Context, userID, appName, roleName string) (catalog.Role, error) {
	if userID == "" {
		return "", ErrUserUnknown
	}

	app, err := catalog.Lookup(appName)
	if err != nil {
		return "", err
	}

	r, err := app.ParseRole(roleName)
	if err != nil {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := role.Upsert(ctx, tx, userID, string(app.Name), string(r), ActorCLI); err != nil {
			return err
		}

		return request.RecordEvent(ctx, tx, &models.ApprovalEvent{
			UserID: userID,
			Actor:  ActorCLI,
			Action: models.ActionGrant,
			App:    string(app.Name),
			Role:   string(r),
		})
	})
	if err != nil {
		return "", err
	}

	s.metrics.decided(string(app.Name), string(models.ActionGrant))

	return r, nil
}

// Roles returns every assignment of userID.
func (s *Service) Roles(ctx context.Context, userID string) ([]models.RoleAssignment, error) {
	return role.ListByUser(ctx, s.db, userID)
}
