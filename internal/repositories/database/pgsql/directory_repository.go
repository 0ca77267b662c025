package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/campus_coin_ledger/internal/apperrors"
	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_coin_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/campus_coin_ledger/internal/models"
	"github.com/SscSPs/campus_coin_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxDirectoryRepository reads the user, company and perk tables maintained by
// the administrative side of the application.
type PgxDirectoryRepository struct {
	BaseRepository
}

func newPgxDirectoryRepository(pool PgxPool) portsrepo.DirectoryRepositoryFacade {
	return &PgxDirectoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DirectoryRepositoryFacade = (*PgxDirectoryRepository)(nil)

const perkColumns = `p.id, p.name, p.price, p.active, c.id, c.name, c.email`

func (r *PgxDirectoryRepository) FindIdentitiesByHolderIDs(ctx context.Context, holderIDs []string) (map[string]domain.Identity, error) {
	identities := make(map[string]domain.Identity, len(holderIDs))
	if len(holderIDs) == 0 {
		return identities, nil
	}

	query := `
		SELECT p.id, u.name, u.email FROM professors p JOIN users u ON u.id = p.user_id WHERE p.id = ANY($1)
		UNION ALL
		SELECT s.id, u.name, u.email FROM students s JOIN users u ON u.id = s.user_id WHERE s.id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, holderIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query holder identities", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ident domain.Identity
		if err := rows.Scan(&ident.ID, &ident.DisplayName, &ident.Email); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan holder identity", err)
		}
		identities[ident.ID] = ident
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating holder identities", err)
	}
	return identities, nil
}

func scanPerk(row rowScanner) (models.Perk, error) {
	var m models.Perk
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Active, &m.CompanyID, &m.CompanyName, &m.CompanyEmail)
	return m, err
}

func (r *PgxDirectoryRepository) FindPerk(ctx context.Context, perkID string) (*domain.Perk, error) {
	query := `SELECT ` + perkColumns + ` FROM perks p JOIN companies c ON c.id = p.company_id WHERE p.id = $1;`
	m, err := scanPerk(r.Pool.QueryRow(ctx, query, perkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find perk "+perkID, err)
	}
	perk := mapping.ToDomainPerk(m)
	return &perk, nil
}

func (r *PgxDirectoryRepository) FindPerksByIDs(ctx context.Context, perkIDs []string) (map[string]domain.Perk, error) {
	perks := make(map[string]domain.Perk, len(perkIDs))
	if len(perkIDs) == 0 {
		return perks, nil
	}

	query := `SELECT ` + perkColumns + ` FROM perks p JOIN companies c ON c.id = p.company_id WHERE p.id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, perkIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query perks", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanPerk(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan perk", err)
		}
		perks[m.ID] = mapping.ToDomainPerk(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating perks", err)
	}
	return perks, nil
}
