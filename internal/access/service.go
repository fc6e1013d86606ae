package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/role"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/superadmin"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

// Service is safe for concurrent use. All state lives in the database.
type Service struct {
	db       *gorm.DB
	metrics  *Metrics
	validate *validator.Validate
}

// New creates the service. metrics may be nil.
func New(db *gorm.DB, metrics *Metrics) *Service {
	return &Service{
		db:       db,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Resolution is the outcome of a dashboard role lookup.
type Resolution struct {
	App     *catalog.Application
	Role    catalog.Role // empty if the user holds no role
	Pending *models.AccessRequest
	// Err is the lookup failure, already logged. Role is empty in that case.
	Err error
}

// HasRole reports whether a role was found.
func (r Resolution) HasRole() bool {
	return r.Role != ""
}

// Resolve looks up the role of userID for app.
// A missing row is not an error. A failing lookup is logged and reported as no role.
func (s *Service) Resolve(ctx context.Context, userID string, app *catalog.Application) Resolution {
	res := Resolution{App: app}

	ra, err := role.Get(ctx, s.db, userID, string(app.Name))

	switch {
	case errors.Is(err, role.ErrRoleNotFound):
		s.metrics.looked(string(app.Name), "none")
	case err != nil:
		log.Error().Err(err).Str("user", userID).Str("app", string(app.Name)).Msg("role lookup failed")
		s.metrics.looked(string(app.Name), "error")
		res.Err = err

		return res
	default:
		r, perr := app.ParseRole(ra.Role)
		if perr != nil {
			// stored value outside the catalog, treat as no role
			log.Warn().Err(perr).Str("user", userID).Msg("ignoring unknown stored role")
			s.metrics.looked(string(app.Name), "unknown")
		} else {
			res.Role = r
			s.metrics.looked(string(app.Name), "found")

			return res
		}
	}

	pending, err := s.PendingFor(ctx, userID, app)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Str("app", string(app.Name)).Msg("pending request lookup failed")
	}

	res.Pending = pending

	return res
}

// IsSuperAdmin reports the super-admin flag of userID.
func (s *Service) IsSuperAdmin(ctx context.Context, userID string) (bool, error) {
	ok, err := superadmin.Is(ctx, s.db, userID)
	if err != nil {
		return false, fmt.Errorf("super-admin lookup: %w", err)
	}

	return ok, nil
}

func (s *Service) requireSuperAdmin(ctx context.Context, db *gorm.DB, actor string) error {
	ok, err := superadmin.Is(ctx, db, actor)
	if err != nil {
		return fmt.Errorf("super-admin lookup: %w", err)
	}

	if !ok {
		return ErrNotSuperAdmin
	}

	return nil
}
