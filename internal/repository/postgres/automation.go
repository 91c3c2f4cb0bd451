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

// PostgresAutomationRepository implements the AutomationRepository interface.
type PostgresAutomationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewAutomationRepository creates a new automation repository.
func NewAutomationRepository(config *RepositoryConfig) repositories.AutomationRepository {
	return &PostgresAutomationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const automationColumns = `id, company_id, name, description, trigger_type, trigger_config,
	schedule, actions, enabled, run_count, last_run_at, created_by, created_at, updated_at`

func scanRule(row pgx.Row) (*models.AutomationRule, error) {
	var rule models.AutomationRule
	err := row.Scan(
		&rule.ID,
		&rule.CompanyID,
		&rule.Name,
		&rule.Description,
		&rule.TriggerType,
		&rule.TriggerConfig,
		&rule.Schedule,
		&rule.Actions,
		&rule.Enabled,
		&rule.RunCount,
		&rule.LastRunAt,
		&rule.CreatedBy,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// List retrieves all rules for a company, newest first. An empty companyID
// returns every rule.
func (r *PostgresAutomationRepository) List(ctx context.Context, companyID string) ([]models.AutomationRule, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE ($1 = '' OR company_id = $1)
		ORDER BY created_at DESC
	`, automationColumns, r.tables.AutomationRules)

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list automation rules: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}

// ListScheduled retrieves all enabled schedule-triggered rules across
// companies. The scheduler calls this on every tick.
func (r *PostgresAutomationRepository) ListScheduled(ctx context.Context) ([]models.AutomationRule, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE enabled AND trigger_type = 'schedule'
		ORDER BY created_at
	`, automationColumns, r.tables.AutomationRules)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list scheduled rules: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}

func collectRules(rows pgx.Rows) ([]models.AutomationRule, error) {
	var rules []models.AutomationRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan automation rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate automation rules: %w", err)
	}
	return rules, nil
}

// GetByID retrieves a rule by id.
func (r *PostgresAutomationRepository) GetByID(ctx context.Context, id string) (*models.AutomationRule, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, automationColumns, r.tables.AutomationRules)

	rule, err := scanRule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NotFoundf("Automation rule")
		}
		return nil, fmt.Errorf("get automation rule: %w", err)
	}
	return rule, nil
}

// Create inserts a new rule.
func (r *PostgresAutomationRepository) Create(ctx context.Context, rule *models.AutomationRule) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.tables.AutomationRules, automationColumns)

	_, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.CompanyID,
		rule.Name,
		rule.Description,
		rule.TriggerType,
		rule.TriggerConfig,
		rule.Schedule,
		rule.Actions,
		rule.Enabled,
		rule.RunCount,
		rule.LastRunAt,
		rule.CreatedBy,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("automation rule %s already exists: %w", rule.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create automation rule: %w", err)
	}
	return nil
}

// Update replaces all mutable columns of a rule.
func (r *PostgresAutomationRepository) Update(ctx context.Context, rule *models.AutomationRule) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, description = $3, trigger_type = $4, trigger_config = $5,
			schedule = $6, actions = $7, enabled = $8, updated_at = $9
		WHERE id = $1
	`, r.tables.AutomationRules)

	tag, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.Name,
		rule.Description,
		rule.TriggerType,
		rule.TriggerConfig,
		rule.Schedule,
		rule.Actions,
		rule.Enabled,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update automation rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("Automation rule")
	}
	return nil
}

// Delete removes a rule. Run history goes with it via ON DELETE CASCADE.
func (r *PostgresAutomationRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.AutomationRules)

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete automation rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("Automation rule")
	}
	return nil
}

// RecordRun inserts a run and bumps the rule's run counter.
func (r *PostgresAutomationRepository) RecordRun(ctx context.Context, run *models.AutomationRun) error {
	insert := fmt.Sprintf(`
		INSERT INTO %s (id, rule_id, status, message, synthetic, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.AutomationRuns)

	_, err := r.pool.Exec(ctx, insert,
		run.ID,
		run.RuleID,
		run.Status,
		run.Message,
		run.Synthetic,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record automation run: %w", err)
	}

	bump := fmt.Sprintf(`
		UPDATE %s SET run_count = run_count + 1, last_run_at = $2 WHERE id = $1
	`, r.tables.AutomationRules)
	if _, err := r.pool.Exec(ctx, bump, run.RuleID, run.CreatedAt); err != nil {
		return fmt.Errorf("update run counter: %w", err)
	}
	return nil
}

// ListRuns retrieves the most recent runs for a rule.
func (r *PostgresAutomationRepository) ListRuns(ctx context.Context, ruleID string, limit int) ([]models.AutomationRun, error) {
	query := fmt.Sprintf(`
		SELECT id, rule_id, status, message, synthetic, created_at
		FROM %s
		WHERE rule_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.AutomationRuns)

	rows, err := r.pool.Query(ctx, query, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("list automation runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AutomationRun
	for rows.Next() {
		var run models.AutomationRun
		err := rows.Scan(
			&run.ID,
			&run.RuleID,
			&run.Status,
			&run.Message,
			&run.Synthetic,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan automation run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate automation runs: %w", err)
	}
	return runs, nil
}
