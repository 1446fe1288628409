package http

import (
	"fmt"
	"net/http"
	"strings"

	"fipe-web/domain"
)

func vehicleTypeFromForm(w http.ResponseWriter, r *http.Request) (domain.VehicleType, bool) {
	fields, ok := requiredFormValues(w, r, "vehicle_type")
	if !ok {
		return "", false
	}
	vehicleType := domain.VehicleType(fields[0])
	if !vehicleType.Valid() {
		http.Error(w, fmt.Sprintf("invalid vehicle_type %q", fields[0]), http.StatusBadRequest)
		return "", false
	}
	return vehicleType, true
}

// requiredFormValues returns the trimmed values of names in order, or
// answers 400 when one is missing.
func requiredFormValues(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return nil, false
	}

	values := make([]string, len(names))
	for i, name := range names {
		v := strings.TrimSpace(r.PostForm.Get(name))
		if v == "" {
			http.Error(w, fmt.Sprintf("missing form field %q", name), http.StatusBadRequest)
			return nil, false
		}
		values[i] = v
	}
	return values, true
}
