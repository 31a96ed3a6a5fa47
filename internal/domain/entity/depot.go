package entity

import "time"

// Depot representa un depósito/bodega donde se registran las compras.
// CreatedBy se fija al crear con el usuario que actúa y nunca cambia.
type Depot struct {
	ID        string
	CompanyID string
	Name      string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
