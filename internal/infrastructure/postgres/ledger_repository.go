package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)
var _ repository.FinishedLedgerRepository = (*FinishedLedgerRepo)(nil)

// LedgerRepo implementación del ledger de materias primas sobre PostgreSQL.
// Solo inserta y lee: la tabla no admite UPDATE ni DELETE.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, material_id, txn_type, quantity, unit, reason,
	reference_type, reference_id, created_by, created_at`

// Append inserta una entrada del ledger.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO material_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.MaterialID, entry.TxnType, entry.Quantity, entry.Unit,
		entry.Reason, entry.ReferenceType, entry.ReferenceID, createdBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByMaterial lista entradas de un material, más recientes primero, con rango de fechas opcional.
func (r *LedgerRepo) ListByMaterial(ctx context.Context, materialID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM material_ledger WHERE material_id = $1`
	args := []any{materialID}
	idx := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *from)
		idx++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *to)
		idx++
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, limit, offset)
	}
	return r.list(ctx, query, args...)
}

// ListRecent lista las últimas entradas de todos los materiales.
func (r *LedgerRepo) ListRecent(ctx context.Context, limit int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM material_ledger ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

// SumByMaterial suma las entradas con signo (IN/ADJUST suma, OUT resta) de un material.
func (r *LedgerRepo) SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN txn_type = 'OUT' THEN -quantity ELSE quantity END), 0)
		FROM material_ledger WHERE material_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, materialID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger: %w", err)
	}
	return sum, nil
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var createdBy *string
		err := rows.Scan(
			&e.ID, &e.MaterialID, &e.TxnType, &e.Quantity, &e.Unit,
			&e.Reason, &e.ReferenceType, &e.ReferenceID, &createdBy, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// FinishedLedgerRepo es el ledger de producto terminado. Mismo contrato append-only.
type FinishedLedgerRepo struct {
	q Querier
}

// NewFinishedLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinishedLedgerRepository(q Querier) *FinishedLedgerRepo {
	return &FinishedLedgerRepo{q: q}
}

// Append inserta una entrada del ledger de terminados.
func (r *FinishedLedgerRepo) Append(ctx context.Context, entry *entity.FinishedLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO finished_ledger (id, product_id, txn_type, quantity, reason, reference_type, reference_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ProductID, entry.TxnType, entry.Quantity,
		entry.Reason, entry.ReferenceType, entry.ReferenceID, createdBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append finished ledger entry: %w", err)
	}
	return nil
}

// ListByProduct lista entradas de un producto, más recientes primero.
func (r *FinishedLedgerRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.FinishedLedgerEntry, error) {
	query := `
		SELECT id, product_id, txn_type, quantity, reason, reference_type, reference_id, created_by, created_at
		FROM finished_ledger WHERE product_id = $1 ORDER BY created_at DESC, id DESC`
	args := []any{productID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list finished ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.FinishedLedgerEntry
	for rows.Next() {
		var e entity.FinishedLedgerEntry
		var createdBy *string
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.TxnType, &e.Quantity,
			&e.Reason, &e.ReferenceType, &e.ReferenceID, &createdBy, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan finished ledger entry: %w", err)
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
