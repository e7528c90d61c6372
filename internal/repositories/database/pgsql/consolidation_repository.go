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

type PgxConsolidationRepository struct {
	BaseRepository
}

// newPgxConsolidationRepository creates a new repository for consolidation group data.
func newPgxConsolidationRepository(pool *pgxpool.Pool) portsrepo.ConsolidationRepositoryFacade {
	return &PgxConsolidationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ConsolidationRepositoryFacade = (*PgxConsolidationRepository)(nil)

const consolidationGroupColumns = `
	group_id, organization_id, name, description, presentation_currency_code, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanConsolidationGroup(row pgx.Row) (*models.ConsolidationGroup, error) {
	var m models.ConsolidationGroup
	err := row.Scan(
		&m.GroupID,
		&m.OrganizationID,
		&m.Name,
		&m.Description,
		&m.PresentationCurrencyCode,
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

func (r *PgxConsolidationRepository) FindGroupByID(ctx context.Context, organizationID string, groupID string) (*domain.ConsolidationGroup, error) {
	query := `SELECT ` + consolidationGroupColumns + ` FROM consolidation_groups WHERE organization_id = $1 AND group_id = $2;`

	m, err := scanConsolidationGroup(r.Pool.QueryRow(ctx, query, organizationID, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find consolidation group "+groupID, err)
	}

	group := mapping.ToDomainConsolidationGroup(*m)
	return &group, nil
}

func (r *PgxConsolidationRepository) ListGroupsByOrganization(ctx context.Context, organizationID string) ([]domain.ConsolidationGroup, error) {
	query := `SELECT ` + consolidationGroupColumns + ` FROM consolidation_groups WHERE organization_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list consolidation groups for organization "+organizationID, err)
	}
	defer rows.Close()

	groups := []domain.ConsolidationGroup{}
	for rows.Next() {
		m, err := scanConsolidationGroup(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan consolidation group row", err)
		}
		groups = append(groups, mapping.ToDomainConsolidationGroup(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating consolidation group rows", err)
	}
	return groups, nil
}

func (r *PgxConsolidationRepository) ListMemberCompanyIDs(ctx context.Context, groupID string) ([]string, error) {
	query := `SELECT company_id FROM consolidation_group_members WHERE group_id = $1 ORDER BY company_id;`

	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list members of consolidation group "+groupID, err)
	}
	defer rows.Close()

	companyIDs := []string{}
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan member row", err)
		}
		companyIDs = append(companyIDs, companyID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating member rows", err)
	}
	return companyIDs, nil
}

func insertGroupMembersTx(ctx context.Context, tx pgx.Tx, groupID string, companyIDs []string) error {
	if len(companyIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, companyID := range companyIDs {
		batch.Queue(`INSERT INTO consolidation_group_members (group_id, company_id) VALUES ($1, $2);`, groupID, companyID)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range companyIDs {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

func (r *PgxConsolidationRepository) SaveGroup(ctx context.Context, group domain.ConsolidationGroup) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelConsolidationGroup(group)
	query := `
		INSERT INTO consolidation_groups (` + consolidationGroupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		m.GroupID, m.OrganizationID, m.Name, m.Description, m.PresentationCurrencyCode, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert consolidation group "+m.GroupID, err)
	}

	if err := insertGroupMembersTx(ctx, tx, m.GroupID, group.MemberCompanyIDs); err != nil {
		return apperrors.NewAppError(500, "failed to insert members of group "+m.GroupID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxConsolidationRepository) UpdateGroup(ctx context.Context, group domain.ConsolidationGroup) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelConsolidationGroup(group)
	query := `
		UPDATE consolidation_groups
		SET name = $3,
		    description = $4,
		    presentation_currency_code = $5,
		    is_active = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE organization_id = $1 AND group_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.OrganizationID, m.GroupID, m.Name, m.Description, m.PresentationCurrencyCode, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update consolidation group "+m.GroupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM consolidation_group_members WHERE group_id = $1;`, m.GroupID); err != nil {
		return apperrors.NewAppError(500, "failed to clear members of group "+m.GroupID, err)
	}
	if err := insertGroupMembersTx(ctx, tx, m.GroupID, group.MemberCompanyIDs); err != nil {
		return apperrors.NewAppError(500, "failed to insert members of group "+m.GroupID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxConsolidationRepository) DeleteGroup(ctx context.Context, organizationID string, groupID string) error {
	// Membership rows are removed by the ON DELETE CASCADE constraint.
	query := `DELETE FROM consolidation_groups WHERE organization_id = $1 AND group_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, groupID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete consolidation group "+groupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
