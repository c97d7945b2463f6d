package entity

import (
	"regexp"
	"strings"
	"time"
)

// Tipos de partner: proveedor, comprador o ambos.
const (
	PartnerTypeSupplier = "supplier"
	PartnerTypeBuyer    = "buyer"
	PartnerTypeBoth     = "both"
)

var (
	gstRegexp     = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[A-Z0-9]{1}Z[A-Z0-9]{1}$`)
	pincodeRegexp = regexp.MustCompile(`^[0-9]{6}$`)
)

// Partner representa un proveedor o comprador de la fábrica.
type Partner struct {
	ID            string
	VendorID      string // código externo único, ej. "VEN-001"
	Name          string
	Type          string // supplier, buyer, both
	GSTNumber     string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	Pincode       string
	ContactPerson string
	Phone         string
	Email         string
	CreatedAt     time.Time
}

// IsSupplier indica si el partner puede actuar como proveedor (materiales y órdenes de compra).
func (p *Partner) IsSupplier() bool {
	return p.Type == PartnerTypeSupplier || p.Type == PartnerTypeBoth
}

// FullAddress concatena las líneas de dirección no vacías.
func (p *Partner) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.AddressLine1, p.AddressLine2, p.City, p.State, p.Pincode} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// ValidGSTNumber valida el formato GSTIN (15 caracteres).
func ValidGSTNumber(gst string) bool {
	return gstRegexp.MatchString(gst)
}

// ValidPincode valida un pincode de 6 dígitos.
func ValidPincode(pin string) bool {
	return pincodeRegexp.MatchString(pin)
}

// ValidPartnerType valida el tipo de partner.
func ValidPartnerType(t string) bool {
	switch t {
	case PartnerTypeSupplier, PartnerTypeBuyer, PartnerTypeBoth:
		return true
	}
	return false
}
