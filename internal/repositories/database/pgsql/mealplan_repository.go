package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openstay/folio-engine/internal/apperrors"
	"github.com/openstay/folio-engine/internal/core/domain"
	portsrepo "github.com/openstay/folio-engine/internal/core/ports/repositories"
	"github.com/openstay/folio-engine/internal/models"
	"github.com/openstay/folio-engine/internal/utils/mapping"
)

type PgxMealPlanRepository struct {
	BaseRepository
}

// newPgxMealPlanRepository creates a new repository for meal plan data.
func newPgxMealPlanRepository(pool *pgxpool.Pool) portsrepo.MealPlanReader {
	return &PgxMealPlanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MealPlanReader = (*PgxMealPlanRepository)(nil)

// FindMealPlanByID retrieves a meal plan with its components.
func (r *PgxMealPlanRepository) FindMealPlanByID(ctx context.Context, mealPlanID string) (*domain.MealPlan, error) {
	planQuery := `
		SELECT meal_plan_id, hotel_id, name, included_in_rate,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM meal_plans
		WHERE meal_plan_id = $1;
	`
	var m models.MealPlan
	err := r.Pool.QueryRow(ctx, planQuery, mealPlanID).Scan(
		&m.MealPlanID,
		&m.HotelID,
		&m.Name,
		&m.IncludedInRate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find meal plan by ID "+mealPlanID, err)
	}

	componentQuery := `
		SELECT component_id, meal_plan_id, name, unit_price, quantity_per_day, target_guest_type, fixed_price
		FROM meal_plan_components
		WHERE meal_plan_id = $1
		ORDER BY component_id;
	`
	rows, err := r.Pool.Query(ctx, componentQuery, mealPlanID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query components for meal plan "+mealPlanID, err)
	}
	defer rows.Close()

	components := []models.MealPlanComponent{}
	for rows.Next() {
		var c models.MealPlanComponent
		err := rows.Scan(
			&c.ComponentID,
			&c.MealPlanID,
			&c.Name,
			&c.UnitPrice,
			&c.QuantityPerDay,
			&c.TargetGuestType,
			&c.FixedPrice,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan component row for meal plan "+mealPlanID, err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating component rows for meal plan "+mealPlanID, err)
	}

	plan := mapping.ToDomainMealPlan(m, components)
	return &plan, nil
}
