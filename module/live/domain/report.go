package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/encoding/json"
)

// ReceivedAtLayout is second-precision local time without a zone suffix.
const ReceivedAtLayout = "2006-01-02T15:04:05"

type Report struct {
	VehicleNo    string `json:"vehicleNo"`
	Route        string `json:"route"`
	StopLocation string `json:"stopLocation"`
}

type StoredRecord struct {
	ReceivedAt string `json:"received_at"`
	SourceIP   string `json:"source_ip"`
	Payload    Report `json:"payload"`
}

type FieldProblem struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Reason
	}
	return "invalid report: " + strings.Join(parts, "; ")
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Problems: []FieldProblem{{Field: field, Reason: reason}}}
}

type normalizedReport struct {
	VehicleNo    *string `json:"vehicleNo" validate:"required"`
	Route        *string `json:"route" validate:"required"`
	StopLocation *string `json:"stopLocation" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// DecodeReport parses a report body, folding the snake-case aliases into the
// canonical fields. Keys match exactly; when both spellings are present the
// camel-case one is used. Unknown fields are dropped.
func DecodeReport(body []byte) (Report, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if json.Valid(body) {
			return Report{}, invalid("body", "must be a JSON object")
		}
		return Report{}, invalid("body", fmt.Sprintf("malformed JSON: %v", err))
	}

	out := &ValidationError{}
	var norm normalizedReport
	for _, f := range []struct {
		dst  **string
		keys []string
	}{
		{&norm.VehicleNo, []string{"vehicleNo", "vehicle_no"}},
		{&norm.Route, []string{"route"}},
		{&norm.StopLocation, []string{"stopLocation", "stop_location"}},
	} {
		raw, ok := lookup(fields, f.keys...)
		if !ok {
			continue
		}
		s, err := decodeString(raw)
		if err != nil {
			out.Problems = append(out.Problems, FieldProblem{Field: f.keys[0], Reason: err.Error()})
			continue
		}
		*f.dst = &s
	}

	if err := validate.Struct(norm); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Report{}, err
		}
		for _, fe := range verrs {
			if !out.has(fe.Field()) {
				out.Problems = append(out.Problems, FieldProblem{Field: fe.Field(), Reason: "field required"})
			}
		}
	}
	if len(out.Problems) > 0 {
		return Report{}, out
	}

	return Report{
		VehicleNo:    *norm.VehicleNo,
		Route:        *norm.Route,
		StopLocation: *norm.StopLocation,
	}, nil
}

func (e *ValidationError) has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// lookup returns the value of the first key present in fields, even if it
// is null.
func lookup(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := fields[k]; ok {
			return raw, true
		}
	}
	return nil, false
}

func decodeString(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return "", errors.New("must be a string")
	}
	return *s, nil
}
