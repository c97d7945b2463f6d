package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/talegos/bagmfg-api/internal/domain"
	"github.com/talegos/bagmfg-api/internal/domain/entity"
	"github.com/talegos/bagmfg-api/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo implementación de PartnerRepository sobre PostgreSQL (usable con pool o tx).
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `id, vendor_id, name, type, gst_number, address_line1, address_line2,
	city, state, pincode, contact_person, phone, email, created_at`

// Create persiste un partner. vendor_id tiene constraint único.
func (r *PartnerRepo) Create(ctx context.Context, partner *entity.Partner) error {
	query := `
		INSERT INTO partners (` + partnerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		partner.ID, partner.VendorID, partner.Name, partner.Type, partner.GSTNumber,
		partner.AddressLine1, partner.AddressLine2, partner.City, partner.State,
		partner.Pincode, partner.ContactPerson, partner.Phone, partner.Email, partner.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

// GetByID obtiene un partner por id. Devuelve nil si no existe.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	partner, err := scanPartner(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return partner, nil
}

// Update actualiza los datos de un partner.
func (r *PartnerRepo) Update(ctx context.Context, partner *entity.Partner) error {
	query := `
		UPDATE partners SET vendor_id = $2, name = $3, type = $4, gst_number = $5,
			address_line1 = $6, address_line2 = $7, city = $8, state = $9, pincode = $10,
			contact_person = $11, phone = $12, email = $13
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		partner.ID, partner.VendorID, partner.Name, partner.Type, partner.GSTNumber,
		partner.AddressLine1, partner.AddressLine2, partner.City, partner.State,
		partner.Pincode, partner.ContactPerson, partner.Phone, partner.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update partner: %w", err)
	}
	return nil
}

// List lista partners con filtros de tipo y texto libre, paginado.
func (r *PartnerRepo) List(ctx context.Context, filter repository.PartnerFilter) ([]*entity.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.Type != "" {
		query += fmt.Sprintf(" AND (type = $%d OR type = 'both')", idx)
		args = append(args, filter.Type)
		idx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR vendor_id ILIKE $%d OR contact_person ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	query += " ORDER BY name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []*entity.Partner
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, partner)
	}
	return partners, rows.Err()
}

func scanPartner(row pgxScanner) (*entity.Partner, error) {
	var p entity.Partner
	err := row.Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Type, &p.GSTNumber,
		&p.AddressLine1, &p.AddressLine2, &p.City, &p.State,
		&p.Pincode, &p.ContactPerson, &p.Phone, &p.Email, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar los scan helpers.
type pgxScanner interface {
	Scan(dest ...any) error
}
