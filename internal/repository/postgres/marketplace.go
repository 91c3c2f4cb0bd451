package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
)

// PostgresMarketplaceRepository implements the MarketplaceRepository
// interface.
type PostgresMarketplaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMarketplaceRepository creates a new marketplace repository.
func NewMarketplaceRepository(config *RepositoryConfig) repositories.MarketplaceRepository {
	return &PostgresMarketplaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const moduleColumns = `id, name, slug, description, category, version, author,
	price, installs, published, created_at, updated_at`

func scanModule(row pgx.Row) (*models.MarketplaceModule, error) {
	var m models.MarketplaceModule
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Slug,
		&m.Description,
		&m.Category,
		&m.Version,
		&m.Author,
		&m.Price,
		&m.Installs,
		&m.Published,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List retrieves catalog entries, optionally filtered by category and
// publication state, ordered by install count.
func (r *PostgresMarketplaceRepository) List(ctx context.Context, category string, publishedOnly bool) ([]models.MarketplaceModule, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE ($1 = '' OR category = $1)
			AND (NOT $2 OR published)
		ORDER BY installs DESC, name
	`, moduleColumns, r.tables.MarketplaceModules)

	rows, err := r.pool.Query(ctx, query, category, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list marketplace modules: %w", err)
	}
	defer rows.Close()

	var modules []models.MarketplaceModule
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan marketplace module: %w", err)
		}
		modules = append(modules, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate marketplace modules: %w", err)
	}
	return modules, nil
}

// GetByID retrieves a module by id.
func (r *PostgresMarketplaceRepository) GetByID(ctx context.Context, id string) (*models.MarketplaceModule, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, moduleColumns, r.tables.MarketplaceModules)

	m, err := scanModule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NotFoundf("Module")
		}
		return nil, fmt.Errorf("get marketplace module: %w", err)
	}
	return m, nil
}

// Create inserts a new catalog entry. A duplicate slug is a conflict.
func (r *PostgresMarketplaceRepository) Create(ctx context.Context, m *models.MarketplaceModule) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.MarketplaceModules, moduleColumns)

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.Name,
		m.Slug,
		m.Description,
		m.Category,
		m.Version,
		m.Author,
		m.Price,
		m.Installs,
		m.Published,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("module %q already exists: %w", m.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("create marketplace module: %w", err)
	}
	return nil
}

// Update replaces all mutable columns of a module.
func (r *PostgresMarketplaceRepository) Update(ctx context.Context, m *models.MarketplaceModule) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, slug = $3, description = $4, category = $5, version = $6,
			author = $7, price = $8, published = $9, updated_at = $10
		WHERE id = $1
	`, r.tables.MarketplaceModules)

	tag, err := r.pool.Exec(ctx, query,
		m.ID,
		m.Name,
		m.Slug,
		m.Description,
		m.Category,
		m.Version,
		m.Author,
		m.Price,
		m.Published,
		m.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("module %q already exists: %w", m.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("update marketplace module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("Module")
	}
	return nil
}

// Delete removes a module from the catalog.
func (r *PostgresMarketplaceRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.MarketplaceModules)

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete marketplace module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("Module")
	}
	return nil
}

// IncrementInstalls bumps the install counter atomically and returns the
// updated row.
func (r *PostgresMarketplaceRepository) IncrementInstalls(ctx context.Context, id string) (*models.MarketplaceModule, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET installs = installs + 1
		WHERE id = $1
		RETURNING %s
	`, r.tables.MarketplaceModules, moduleColumns)

	m, err := scanModule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NotFoundf("Module")
		}
		return nil, fmt.Errorf("increment installs: %w", err)
	}
	return m, nil
}
