package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// VehicleType selects one of the catalog's vehicle trees.
type VehicleType string

const (
	VehicleCars   VehicleType = "carros"
	VehicleMotos  VehicleType = "motos"
	VehicleTrucks VehicleType = "caminhoes"
)

var VehicleTypes = []VehicleType{VehicleCars, VehicleMotos, VehicleTrucks}

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleCars, VehicleMotos, VehicleTrucks:
		return true
	}
	return false
}

// Label returns the display name used by the templates.
func (v VehicleType) Label() string {
	switch v {
	case VehicleCars:
		return "Carros"
	case VehicleMotos:
		return "Motos"
	case VehicleTrucks:
		return "Caminhões"
	}
	return string(v)
}

// Code is an opaque catalog identifier. The API sends it as a string for
// brands and years and as a number for models.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

// CatalogItem is a brand, model or model year entry.
type CatalogItem struct {
	Code Code   `json:"codigo"`
	Name string `json:"nome"`
}

type PriceQuery struct {
	VehicleType VehicleType
	BrandID     string
	ModelID     string
	YearID      string
}

// PriceRecord is the normalized result of one price lookup.
type PriceRecord struct {
	Price          string
	Brand          string
	Model          string
	Year           string
	Fuel           string
	FipeCode       string
	ReferenceMonth string
}

// PricePoint is one element of a price-over-time series.
type PricePoint struct {
	YearLabel string
	Year      int
	HasYear   bool
	Price     float64
}

// ParseModelYear extracts the leading year number of a model year label
// such as "2014 Gasolina" or "2014-1".
func ParseModelYear(label string) (int, bool) {
	label = strings.TrimSpace(label)
	end := strings.IndexFunc(label, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(label)
	}
	if end == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(label[:end])
	if err != nil {
		return 0, false
	}
	return year, true
}
