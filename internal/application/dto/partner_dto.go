package dto

import (
	"time"

	"github.com/talegos/bagmfg-api/internal/domain/entity"
)

// PartnerRequest body para crear o actualizar un partner.
type PartnerRequest struct {
	VendorID      string `json:"vendor_id"`
	Name          string `json:"name"`
	Type          string `json:"type"` // supplier, buyer, both
	GSTNumber     string `json:"gst_number"`
	AddressLine1  string `json:"address_line1"`
	AddressLine2  string `json:"address_line2,omitempty"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
}

// PartnerResponse representación HTTP de un partner.
type PartnerResponse struct {
	ID            string    `json:"id"`
	VendorID      string    `json:"vendor_id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	GSTNumber     string    `json:"gst_number"`
	AddressLine1  string    `json:"address_line1"`
	AddressLine2  string    `json:"address_line2,omitempty"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Pincode       string    `json:"pincode"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PartnerToResponse convierte la entidad al DTO de salida.
func PartnerToResponse(p *entity.Partner) PartnerResponse {
	return PartnerResponse{
		ID:            p.ID,
		VendorID:      p.VendorID,
		Name:          p.Name,
		Type:          p.Type,
		GSTNumber:     p.GSTNumber,
		AddressLine1:  p.AddressLine1,
		AddressLine2:  p.AddressLine2,
		City:          p.City,
		State:         p.State,
		Pincode:       p.Pincode,
		ContactPerson: p.ContactPerson,
		Phone:         p.Phone,
		Email:         p.Email,
		CreatedAt:     p.CreatedAt,
	}
}
