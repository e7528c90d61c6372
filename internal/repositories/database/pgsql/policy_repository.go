package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/models"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/mapping"
)

type PgxPolicyRepository struct {
	BaseRepository
}

// newPgxPolicyRepository creates a new repository for authorization policy data.
func newPgxPolicyRepository(pool *pgxpool.Pool) portsrepo.PolicyRepositoryFacade {
	return &PgxPolicyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PolicyRepositoryFacade = (*PgxPolicyRepository)(nil)

const policyColumns = `
	policy_id, organization_id, name, description,
	subject_condition, resource_condition, action_condition, environment_condition,
	effect, priority, is_system_policy, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPolicy(row pgx.Row) (*models.AuthorizationPolicy, error) {
	var m models.AuthorizationPolicy
	err := row.Scan(
		&m.PolicyID,
		&m.OrganizationID,
		&m.Name,
		&m.Description,
		&m.Subject,
		&m.Resource,
		&m.Action,
		&m.Environment,
		&m.Effect,
		&m.Priority,
		&m.IsSystemPolicy,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxPolicyRepository) FindPolicyByID(ctx context.Context, organizationID string, policyID string) (*domain.AuthorizationPolicy, error) {
	query := `SELECT ` + policyColumns + ` FROM authorization_policies WHERE organization_id = $1 AND policy_id = $2;`

	m, err := scanPolicy(r.Pool.QueryRow(ctx, query, organizationID, policyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find policy "+policyID, err)
	}

	policy, err := mapping.ToDomainAuthorizationPolicy(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode conditions of policy "+policyID, err)
	}
	return &policy, nil
}

func (r *PgxPolicyRepository) ListPoliciesByOrganization(ctx context.Context, organizationID string) ([]domain.AuthorizationPolicy, error) {
	query := `SELECT ` + policyColumns + ` FROM authorization_policies WHERE organization_id = $1 ORDER BY priority, policy_id;`
	return r.queryPolicies(ctx, query, organizationID)
}

func (r *PgxPolicyRepository) ListActivePoliciesByOrganization(ctx context.Context, organizationID string) ([]domain.AuthorizationPolicy, error) {
	query := `SELECT ` + policyColumns + ` FROM authorization_policies WHERE organization_id = $1 AND is_active = TRUE ORDER BY priority, policy_id;`
	return r.queryPolicies(ctx, query, organizationID)
}

func (r *PgxPolicyRepository) queryPolicies(ctx context.Context, query string, organizationID string) ([]domain.AuthorizationPolicy, error) {
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list policies for organization "+organizationID, err)
	}
	defer rows.Close()

	policies := []domain.AuthorizationPolicy{}
	for rows.Next() {
		m, err := scanPolicy(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan policy row", err)
		}
		policy, err := mapping.ToDomainAuthorizationPolicy(*m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode conditions of policy "+m.PolicyID, err)
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating policy rows", err)
	}
	return policies, nil
}

func (r *PgxPolicyRepository) SavePolicy(ctx context.Context, policy domain.AuthorizationPolicy) error {
	m, err := mapping.ToModelAuthorizationPolicy(policy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode conditions of policy "+policy.PolicyID, err)
	}

	query := `
		INSERT INTO authorization_policies (` + policyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.PolicyID, m.OrganizationID, m.Name, m.Description,
		m.Subject, m.Resource, m.Action, m.Environment,
		m.Effect, m.Priority, m.IsSystemPolicy, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert policy "+m.PolicyID, err)
	}
	return nil
}

func (r *PgxPolicyRepository) UpdatePolicy(ctx context.Context, policy domain.AuthorizationPolicy) error {
	m, err := mapping.ToModelAuthorizationPolicy(policy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode conditions of policy "+policy.PolicyID, err)
	}

	// System policies are never updated through this path.
	query := `
		UPDATE authorization_policies
		SET name = $3,
		    description = $4,
		    subject_condition = $5,
		    resource_condition = $6,
		    action_condition = $7,
		    environment_condition = $8,
		    effect = $9,
		    priority = $10,
		    is_active = $11,
		    last_updated_at = $12,
		    last_updated_by = $13
		WHERE organization_id = $1 AND policy_id = $2 AND is_system_policy = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.OrganizationID, m.PolicyID, m.Name, m.Description,
		m.Subject, m.Resource, m.Action, m.Environment,
		m.Effect, m.Priority, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update policy "+m.PolicyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPolicyRepository) DeletePolicy(ctx context.Context, organizationID string, policyID string) error {
	query := `DELETE FROM authorization_policies WHERE organization_id = $1 AND policy_id = $2 AND is_system_policy = FALSE;`

	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, policyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete policy "+policyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
