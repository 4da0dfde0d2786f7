package entity

import "time"

// Tipos de tercero.
const (
	PartyTypeSupplier = "supplier"
	PartyTypeCustomer = "customer"
)

// Party representa un proveedor o cliente referenciado por una transacción.
type Party struct {
	ID        string
	Type      string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
