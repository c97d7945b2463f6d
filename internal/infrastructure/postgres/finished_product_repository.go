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

var _ repository.FinishedProductRepository = (*FinishedProductRepo)(nil)

// FinishedProductRepo implementación de FinishedProductRepository sobre PostgreSQL.
// La cabecera vive en finished_products y el BOM en bom_items.
type FinishedProductRepo struct {
	q Querier
}

// NewFinishedProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinishedProductRepository(q Querier) *FinishedProductRepo {
	return &FinishedProductRepo{q: q}
}

// Create persiste el producto y sus líneas de BOM. SKU tiene constraint único.
func (r *FinishedProductRepo) Create(ctx context.Context, product *entity.FinishedProduct) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO finished_products (id, name, sku, created_at) VALUES ($1, $2, $3, $4)`,
		product.ID, product.Name, product.SKU, product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create finished product: %w", err)
	}
	return r.replaceBOM(ctx, product.ID, product.BOM)
}

// GetByID obtiene un producto por id con su BOM. Devuelve nil si no existe.
func (r *FinishedProductRepo) GetByID(ctx context.Context, id string) (*entity.FinishedProduct, error) {
	return r.getBy(ctx, `SELECT id, name, sku, created_at FROM finished_products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU con su BOM.
func (r *FinishedProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.FinishedProduct, error) {
	return r.getBy(ctx, `SELECT id, name, sku, created_at FROM finished_products WHERE sku = $1`, sku)
}

func (r *FinishedProductRepo) getBy(ctx context.Context, query, arg string) (*entity.FinishedProduct, error) {
	var p entity.FinishedProduct
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.SKU, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get finished product: %w", err)
	}
	if err := r.loadBOM(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update actualiza la cabecera y reescribe el BOM.
func (r *FinishedProductRepo) Update(ctx context.Context, product *entity.FinishedProduct) error {
	_, err := r.q.Exec(ctx,
		`UPDATE finished_products SET name = $2, sku = $3 WHERE id = $1`,
		product.ID, product.Name, product.SKU,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update finished product: %w", err)
	}
	return r.replaceBOM(ctx, product.ID, product.BOM)
}

// List lista productos con su BOM, paginado.
func (r *FinishedProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.FinishedProduct, error) {
	query := `SELECT id, name, sku, created_at FROM finished_products ORDER BY name`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list finished products: %w", err)
	}
	defer rows.Close()

	var products []*entity.FinishedProduct
	for rows.Next() {
		var p entity.FinishedProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan finished product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range products {
		if err := r.loadBOM(ctx, p); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// GetStockForUpdate bloquea el saldo de terminados; si no existe, lo inicia en cero.
func (r *FinishedProductRepo) GetStockForUpdate(ctx context.Context, productID string) (*entity.FinishedStock, error) {
	query := `SELECT product_id, current_stock, updated_at FROM finished_stock WHERE product_id = $1 FOR UPDATE`
	var s entity.FinishedStock
	err := r.q.QueryRow(ctx, query, productID).Scan(&s.ProductID, &s.CurrentStock, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.FinishedStock{ProductID: productID, CurrentStock: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get finished stock for update: %w", err)
	}
	return &s, nil
}

// UpsertStock inserta o actualiza el saldo de producto terminado.
func (r *FinishedProductRepo) UpsertStock(ctx context.Context, stock *entity.FinishedStock) error {
	query := `
		INSERT INTO finished_stock (product_id, current_stock, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET current_stock = EXCLUDED.current_stock, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, stock.ProductID, stock.CurrentStock); err != nil {
		return fmt.Errorf("upsert finished stock: %w", err)
	}
	return nil
}

func (r *FinishedProductRepo) replaceBOM(ctx context.Context, productID string, bom []entity.BOMItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bom_items WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete bom items: %w", err)
	}
	for _, item := range bom {
		_, err := r.q.Exec(ctx,
			`INSERT INTO bom_items (product_id, material_id, qty_per_unit) VALUES ($1, $2, $3)`,
			productID, item.MaterialID, item.QtyPerUnit,
		)
		if err != nil {
			return fmt.Errorf("insert bom item: %w", err)
		}
	}
	return nil
}

func (r *FinishedProductRepo) loadBOM(ctx context.Context, product *entity.FinishedProduct) error {
	rows, err := r.q.Query(ctx,
		`SELECT material_id, qty_per_unit FROM bom_items WHERE product_id = $1 ORDER BY material_id`,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("load bom: %w", err)
	}
	defer rows.Close()
	product.BOM = nil
	for rows.Next() {
		var item entity.BOMItem
		if err := rows.Scan(&item.MaterialID, &item.QtyPerUnit); err != nil {
			return fmt.Errorf("scan bom item: %w", err)
		}
		product.BOM = append(product.BOM, item)
	}
	return rows.Err()
}
