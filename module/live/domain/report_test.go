package domain

import (
	"errors"
	"testing"
)

func TestDecodeReport_CamelCase(t *testing.T) {
	r, err := DecodeReport([]byte(`{"vehicleNo":"12A3456","route":"R-101","stopLocation":"Main gate"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Report{VehicleNo: "12A3456", Route: "R-101", StopLocation: "Main gate"}
	if r != want {
		t.Errorf("expected %+v, got %+v", want, r)
	}
}

func TestDecodeReport_AliasEquivalence(t *testing.T) {
	camel, err := DecodeReport([]byte(`{"vehicleNo":"X","route":"R","stopLocation":"L"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snake, err := DecodeReport([]byte(`{"vehicle_no":"X","route":"R","stop_location":"L"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if camel != snake {
		t.Errorf("expected identical reports, got %+v and %+v", camel, snake)
	}
}

func TestDecodeReport_CamelWinsOverSnake(t *testing.T) {
	r, err := DecodeReport([]byte(`{"vehicleNo":"camel","vehicle_no":"snake","route":"R","stop_location":"L"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.VehicleNo != "camel" {
		t.Errorf("expected camel, got %s", r.VehicleNo)
	}
	if r.StopLocation != "L" {
		t.Errorf("expected L, got %s", r.StopLocation)
	}

	tests := []struct {
		name string
		body string
		want Report
	}{
		{"snake wrong type ignored", `{"vehicleNo":"X","vehicle_no":5,"route":"R","stopLocation":"L","stop_location":null}`, Report{"X", "R", "L"}},
		{"case variant ignored", `{"vehicleNo":"A","VehicleNo":"B","route":"R","stopLocation":"L"}`, Report{"A", "R", "L"}},
		{"snake only", `{"vehicle_no":"S","route":"R","stop_location":"T"}`, Report{"S", "R", "T"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeReport([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, r)
			}
		})
	}
}

func TestDecodeReport_ExtraFieldsIgnored(t *testing.T) {
	r, err := DecodeReport([]byte(`{"vehicleNo":"X","route":"R","stopLocation":"L","extra":123}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != (Report{VehicleNo: "X", Route: "R", StopLocation: "L"}) {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestDecodeReport_EmptyStringAccepted(t *testing.T) {
	if _, err := DecodeReport([]byte(`{"vehicleNo":"","route":"","stopLocation":""}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeReport_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing vehicle", `{"route":"R","stopLocation":"L"}`, "vehicleNo"},
		{"missing route", `{"vehicleNo":"X","stopLocation":"L"}`, "route"},
		{"missing stop", `{"vehicleNo":"X","route":"R"}`, "stopLocation"},
		{"null vehicle", `{"vehicleNo":null,"route":"R","stopLocation":"L"}`, "vehicleNo"},
		{"numeric route", `{"vehicleNo":"X","route":101,"stopLocation":"L"}`, "route"},
		{"numeric snake stop", `{"vehicleNo":"X","route":"R","stop_location":7}`, "stopLocation"},
		{"null camel with snake", `{"vehicleNo":null,"vehicle_no":"X","route":"R","stopLocation":"L"}`, "vehicleNo"},
		{"numeric camel with snake", `{"vehicleNo":"X","route":"R","stopLocation":1,"stop_location":"L"}`, "stopLocation"},
		{"uppercase keys", `{"VEHICLENO":"X","ROUTE":"R","StopLocation":"L"}`, "vehicleNo"},
		{"array body", `["X","R","L"]`, "body"},
		{"malformed", `{"vehicleNo":`, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReport([]byte(tt.body))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Problems) == 0 || verr.Problems[0].Field != tt.wantField {
				t.Errorf("expected problem on %s, got %+v", tt.wantField, verr.Problems)
			}
		})
	}
}

func TestDecodeReport_AllMissingListsEveryField(t *testing.T) {
	_, err := DecodeReport([]byte(`{}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d", len(verr.Problems))
	}
}

func TestDecodeReport_NullNotDoubleReported(t *testing.T) {
	_, err := DecodeReport([]byte(`{"vehicleNo":null,"route":"R"}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []FieldProblem{
		{Field: "vehicleNo", Reason: "must be a string"},
		{Field: "stopLocation", Reason: "field required"},
	}
	if len(verr.Problems) != len(want) {
		t.Fatalf("expected %+v, got %+v", want, verr.Problems)
	}
	for i := range want {
		if verr.Problems[i] != want[i] {
			t.Errorf("expected %+v, got %+v", want[i], verr.Problems[i])
		}
	}
}
