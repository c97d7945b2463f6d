package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, name, rm_id, code, material_type, colour, colour_code, unit,
	cost_per_unit, current_stock, reorder_level, vendor_id, created_at, updated_at`

// Create persiste una materia prima. code tiene constraint único.
func (r *MaterialRepo) Create(ctx context.Context, material *entity.Material) error {
	query := `
		INSERT INTO raw_materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())`
	_, err := r.q.Exec(ctx, query,
		material.ID, material.Name, material.RMID, material.Code, material.MaterialType,
		material.Colour, material.ColourCode, material.Unit, material.CostPerUnit,
		material.CurrentStock, material.ReorderLevel, material.VendorID, material.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// GetByID obtiene una materia prima por id con sus proveedores habilitados.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE id = $1`
	material, err := scanMaterial(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	if err := r.loadVendorLinks(ctx, []*entity.Material{material}); err != nil {
		return nil, err
	}
	return material, nil
}

// GetForUpdate obtiene la materia prima y bloquea la fila (SELECT FOR UPDATE).
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE id = $1 FOR UPDATE`
	material, err := scanMaterial(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material for update: %w", err)
	}
	if err := r.loadVendorLinks(ctx, []*entity.Material{material}); err != nil {
		return nil, err
	}
	return material, nil
}

// LockByIDs bloquea varias filas en orden estable por id, para que dos operaciones
// concurrentes sobre los mismos materiales no se interbloqueen.
func (r *MaterialRepo) LockByIDs(ctx context.Context, ids []string) (map[string]*entity.Material, error) {
	if len(ids) == 0 {
		return map[string]*entity.Material{}, nil
	}
	query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock materials: %w", err)
	}
	defer rows.Close()

	materials := make(map[string]*entity.Material, len(ids))
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials[material.ID] = material
	}
	return materials, rows.Err()
}

// Update actualiza los datos maestros. El stock solo se toca vía UpdateStock.
func (r *MaterialRepo) Update(ctx context.Context, material *entity.Material) error {
	query := `
		UPDATE raw_materials SET name = $2, rm_id = $3, code = $4, material_type = $5,
			colour = $6, colour_code = $7, unit = $8, cost_per_unit = $9,
			reorder_level = $10, vendor_id = $11, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		material.ID, material.Name, material.RMID, material.Code, material.MaterialType,
		material.Colour, material.ColourCode, material.Unit, material.CostPerUnit,
		material.ReorderLevel, material.VendorID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// UpdateStock actualiza la caché de saldo. Siempre dentro de una tx junto al ledger.
func (r *MaterialRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE raw_materials SET current_stock = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update material stock: %w", err)
	}
	return nil
}

// ReplaceVendorLinks reescribe los proveedores habilitados del material.
func (r *MaterialRepo) ReplaceVendorLinks(ctx context.Context, materialID string, vendorIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM material_vendors WHERE material_id = $1`, materialID); err != nil {
		return fmt.Errorf("delete vendor links: %w", err)
	}
	seen := make(map[string]bool, len(vendorIDs))
	for _, vendorID := range vendorIDs {
		if seen[vendorID] {
			continue
		}
		seen[vendorID] = true
		_, err := r.q.Exec(ctx,
			`INSERT INTO material_vendors (material_id, vendor_id) VALUES ($1, $2)`,
			materialID, vendorID,
		)
		if err != nil {
			return fmt.Errorf("insert vendor link: %w", err)
		}
	}
	return nil
}

// List lista materias primas con filtros, paginado.
func (r *MaterialRepo) List(ctx context.Context, filter repository.MaterialFilter) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM raw_materials WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.MaterialType != "" {
		query += fmt.Sprintf(" AND material_type = $%d", idx)
		args = append(args, filter.MaterialType)
		idx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR rm_id ILIKE $%d OR code ILIKE $%d OR colour ILIKE $%d)", idx, idx, idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.LowStockOnly {
		query += " AND current_stock <= reorder_level"
	}
	query += " ORDER BY rm_id, colour_code"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []*entity.Material
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadVendorLinks(ctx, materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// ListByVendor lista los materiales que tienen al vendor como proveedor habilitado.
func (r *MaterialRepo) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Material, error) {
	query := `
		SELECT ` + materialColumns + ` FROM raw_materials
		WHERE id IN (SELECT material_id FROM material_vendors WHERE vendor_id = $1)
		ORDER BY rm_id, colour_code`
	rows, err := r.q.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list materials by vendor: %w", err)
	}
	defer rows.Close()

	var materials []*entity.Material
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadVendorLinks(ctx, materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// loadVendorLinks carga los proveedores habilitados de un lote de materiales en una consulta.
func (r *MaterialRepo) loadVendorLinks(ctx context.Context, materials []*entity.Material) error {
	if len(materials) == 0 {
		return nil
	}
	ids := make([]string, 0, len(materials))
	byID := make(map[string]*entity.Material, len(materials))
	for _, m := range materials {
		ids = append(ids, m.ID)
		byID[m.ID] = m
	}
	rows, err := r.q.Query(ctx,
		`SELECT material_id, vendor_id FROM material_vendors WHERE material_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("load vendor links: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var materialID, vendorID string
		if err := rows.Scan(&materialID, &vendorID); err != nil {
			return fmt.Errorf("scan vendor link: %w", err)
		}
		if m, ok := byID[materialID]; ok {
			m.VendorIDs = append(m.VendorIDs, vendorID)
		}
	}
	return rows.Err()
}

func scanMaterial(row pgxScanner) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Name, &m.RMID, &m.Code, &m.MaterialType,
		&m.Colour, &m.ColourCode, &m.Unit, &m.CostPerUnit,
		&m.CurrentStock, &m.ReorderLevel, &m.VendorID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
