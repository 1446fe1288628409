package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one successful price lookup.
type HistoryEntry struct {
	ID          uuid.UUID   `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	VehicleType VehicleType `json:"vehicle_type"`
	Brand       string      `json:"brand"`
	Model       string      `json:"model"`
	Year        string      `json:"year"`
	Price       string      `json:"price"`
	Fuel        string      `json:"fuel"`
}

func NewHistoryEntry(vehicleType VehicleType, record PriceRecord) HistoryEntry {
	return HistoryEntry{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		VehicleType: vehicleType,
		Brand:       record.Brand,
		Model:       record.Model,
		Year:        record.Year,
		Price:       record.Price,
		Fuel:        record.Fuel,
	}
}
