package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
	"domainflow/pkg/platform/sentinel"
	"domainflow/pkg/platform/tx"
)

const pqUniqueViolation = "23505"

const tenantColumns = `
	id, name, status, custom_domain, custom_domain_status, custom_domain_verified,
	custom_domain_added_at, custom_domain_verified_at, custom_domain_stalled_at,
	created_at, updated_at`

// PostgresStore persists tenants in PostgreSQL. The partial unique index on
// custom_domain is the final arbiter of domain ownership.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, status, custom_domain_status, created_at, updated_at)
		VALUES ($1, $2, $3, 'unregistered', $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(tenant.ID),
		tenant.Name,
		string(tenant.Status),
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant by id: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE lower(name) = lower($1)`
	t, err := scanTenant(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant by name: %w", err)
	}
	return t, nil
}

// FindByDomain returns the tenant holding domain in any registered status.
func (s *PostgresStore) FindByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants
		WHERE custom_domain = $1 AND custom_domain_status <> 'unregistered'`
	t, err := scanTenant(s.db.QueryRowContext(ctx, query, domain))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant by domain: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tenants: %w", err)
	}
	return n, nil
}

// Execute locks the row, runs validate then mutate, and persists the
// tenant-level fields in the same transaction.
func (s *PostgresStore) Execute(ctx context.Context, tenantID id.TenantID, validate func(*models.Tenant) error, mutate func(*models.Tenant)) (*models.Tenant, error) {
	var t *models.Tenant
	err := tx.Run(ctx, s.db, func(ctx context.Context, q *sql.Tx) error {
		query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 FOR UPDATE`
		locked, err := scanTenant(q.QueryRowContext(ctx, query, uuid.UUID(tenantID)))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock tenant: %w", err)
		}
		if err := validate(locked); err != nil {
			return err
		}
		mutate(locked)

		if _, err := q.ExecContext(ctx,
			`UPDATE tenants SET status = $2, updated_at = $3 WHERE id = $1`,
			uuid.UUID(tenantID), string(locked.Status), locked.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update tenant: %w", err)
		}
		t = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	t.Domain.TenantStatus = t.Status
	return t, nil
}

// ClaimDomain attaches domain to an unregistered tenant, or refreshes a
// re-registration of the same domain. The unique index rejects a domain held
// by another tenant.
func (s *PostgresStore) ClaimDomain(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (*models.DomainRecord, error) {
	query := `
		UPDATE tenants SET
			custom_domain = $2,
			custom_domain_status = CASE WHEN custom_domain_status = 'unregistered' THEN 'pending_dns' ELSE custom_domain_status END,
			custom_domain_verified = CASE WHEN custom_domain_status = 'unregistered' THEN FALSE ELSE custom_domain_verified END,
			custom_domain_added_at = CASE WHEN custom_domain_status = 'unregistered' THEN $3 ELSE custom_domain_added_at END,
			custom_domain_verified_at = CASE WHEN custom_domain_status = 'unregistered' THEN NULL ELSE custom_domain_verified_at END,
			custom_domain_stalled_at = NULL,
			updated_at = $3
		WHERE id = $1
		  AND (custom_domain_status = 'unregistered'
		       OR (custom_domain = $2 AND custom_domain_status <> 'removal_in_progress'))
		RETURNING ` + tenantColumns
	t, err := scanTenant(s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), domain, now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, sentinel.ErrAlreadyUsed
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.missingOrInvalid(ctx, tenantID)
		}
		return nil, fmt.Errorf("claim domain: %w", err)
	}
	return &t.Domain, nil
}

func (s *PostgresStore) MarkVerified(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error) {
	query := `
		UPDATE tenants
		SET custom_domain_status = 'verified', custom_domain_verified = TRUE, updated_at = $3
		WHERE id = $1 AND custom_domain = $2 AND custom_domain_status = 'pending_dns'
	`
	return s.execConditional(ctx, "mark verified", query, uuid.UUID(tenantID), domain, now)
}

// Activate is the single winning write for verification. The tenant status
// moves only from pending_domain; suspended or trial tenants are untouched.
func (s *PostgresStore) Activate(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error) {
	query := `
		UPDATE tenants SET
			custom_domain_status = 'active',
			custom_domain_verified = TRUE,
			custom_domain_verified_at = $3,
			custom_domain_stalled_at = NULL,
			status = CASE WHEN status = 'pending_domain' THEN 'active' ELSE status END,
			updated_at = $3
		WHERE id = $1
		  AND custom_domain = $2
		  AND custom_domain_status IN ('pending_dns', 'verified')
	`
	return s.execConditional(ctx, "activate domain", query, uuid.UUID(tenantID), domain, now)
}

func (s *PostgresStore) MarkStalled(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) (bool, error) {
	query := `
		UPDATE tenants
		SET custom_domain_stalled_at = $3, updated_at = $3
		WHERE id = $1
		  AND custom_domain = $2
		  AND custom_domain_status IN ('pending_dns', 'verified')
		  AND custom_domain_stalled_at IS NULL
	`
	return s.execConditional(ctx, "mark stalled", query, uuid.UUID(tenantID), domain, now)
}

func (s *PostgresStore) BeginRemoval(ctx context.Context, tenantID id.TenantID, now time.Time) (string, error) {
	query := `
		UPDATE tenants
		SET custom_domain_status = 'removal_in_progress', updated_at = $2
		WHERE id = $1 AND custom_domain_status <> 'unregistered'
		RETURNING custom_domain
	`
	var domain sql.NullString
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), now).Scan(&domain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", s.missingOrInvalid(ctx, tenantID)
		}
		return "", fmt.Errorf("begin domain removal: %w", err)
	}
	return domain.String, nil
}

func (s *PostgresStore) ClearDomain(ctx context.Context, tenantID id.TenantID, domain string, now time.Time) error {
	query := `
		UPDATE tenants SET
			custom_domain = NULL,
			custom_domain_status = 'unregistered',
			custom_domain_verified = FALSE,
			custom_domain_added_at = NULL,
			custom_domain_verified_at = NULL,
			custom_domain_stalled_at = NULL,
			updated_at = $3
		WHERE id = $1 AND custom_domain = $2 AND custom_domain_status = 'removal_in_progress'
	`
	applied, err := s.execConditional(ctx, "clear domain", query, uuid.UUID(tenantID), domain, now)
	if err != nil {
		return err
	}
	if !applied {
		return s.missingOrInvalid(ctx, tenantID)
	}
	return nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[models.DomainStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT custom_domain_status, COUNT(*)
		FROM tenants
		GROUP BY custom_domain_status
	`)
	if err != nil {
		return nil, fmt.Errorf("count by domain status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.DomainStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan domain status count: %w", err)
		}
		counts[models.DomainStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domain status counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) CountPendingSince(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM tenants
		WHERE custom_domain_status IN ('pending_dns', 'verified')
		  AND custom_domain_added_at < $1
	`, cutoff).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stale pending domains: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ListAdvanceable(ctx context.Context, limit int) ([]id.TenantID, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id
		FROM tenants
		WHERE custom_domain_status IN ('pending_dns', 'verified')
		ORDER BY custom_domain_added_at NULLS LAST
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list advanceable domains: %w", err)
	}
	defer rows.Close()

	var ids []id.TenantID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan tenant id: %w", err)
		}
		ids = append(ids, id.TenantID(u))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate advanceable domains: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) execConditional(ctx context.Context, op, query string, args ...any) (bool, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s rows affected: %w", op, err)
	}
	return rows > 0, nil
}

// missingOrInvalid distinguishes an unknown tenant from a conditional write
// whose precondition did not hold.
func (s *PostgresStore) missingOrInvalid(ctx context.Context, tenantID id.TenantID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tenants WHERE id = $1)`, uuid.UUID(tenantID)).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check tenant exists: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrInvalidState
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	var (
		tenantID     uuid.UUID
		name         string
		status       string
		domain       sql.NullString
		domainStatus string
		verified     bool
		addedAt      sql.NullTime
		verifiedAt   sql.NullTime
		stalledAt    sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := row.Scan(&tenantID, &name, &status, &domain, &domainStatus, &verified,
		&addedAt, &verifiedAt, &stalledAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t := &models.Tenant{
		ID:        id.TenantID(tenantID),
		Name:      name,
		Status:    models.TenantStatus(status),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Domain: models.DomainRecord{
			TenantID:     id.TenantID(tenantID),
			Domain:       domain.String,
			Status:       models.DomainStatus(domainStatus),
			Verified:     verified,
			TenantStatus: models.TenantStatus(status),
			RegisteredAt: nullTime(addedAt),
			VerifiedAt:   nullTime(verifiedAt),
			StalledAt:    nullTime(stalledAt),
		},
	}
	return t, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}
