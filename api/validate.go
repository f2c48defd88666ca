package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/countyhealth/countyd/store"
)

// allowedFields is the request whitelist. Anything outside it triggers the
// teapot rejection, checked before every other rule.
var allowedFields = map[string]bool{
	"zip":          true,
	"measure_name": true,
}

// Rejection is a request refused by validation. It never reaches the store
// (the measure lookup reads the schema, not request data) and carries the
// HTTP status the transport maps it to.
type Rejection struct {
	Status int
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejected (%d): %s", r.Status, r.Reason)
}

// Validator checks county-data requests against the field whitelist and the
// measure vocabulary. Measures are validated against the live store: the
// distinct measure_name values currently in the health-rankings table.
type Validator struct {
	DB *sql.DB
}

// Validate applies the checks in fixed order and returns the accepted
// (zip, measure_name) pair. The order is part of the contract: an
// unrecognized field wins over a missing zip.
func (v *Validator) Validate(ctx context.Context, fields map[string]string) (string, string, error) {
	for name := range fields {
		if !allowedFields[name] {
			return "", "", &Rejection{Status: http.StatusTeapot, Reason: "teapot"}
		}
	}

	zip := strings.TrimSpace(fields["zip"])
	if zip == "" {
		return "", "", &Rejection{Status: http.StatusBadRequest, Reason: "missing zip"}
	}

	measure := strings.TrimSpace(fields["measure_name"])
	if measure == "" {
		return "", "", &Rejection{Status: http.StatusBadRequest, Reason: "missing measure_name"}
	}

	known, err := v.measureKnown(ctx, measure)
	if err != nil {
		return "", "", err
	}
	if !known {
		return "", "", &Rejection{Status: http.StatusBadRequest, Reason: "invalid measure_name"}
	}

	return zip, measure, nil
}

func (v *Validator) measureKnown(ctx context.Context, measure string) (bool, error) {
	names, err := store.MeasureNames(ctx, v.DB)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == measure {
			return true, nil
		}
	}
	return false, nil
}
