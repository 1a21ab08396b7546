package domain

import (
	"errors"
	"fmt"
)

// Document names one of the externally maintained JSON files.
type Document string

const (
	UpdateDescriptorDoc Document = "db.json"
	PayloadDoc          Document = "data.json"
	SchedulesDoc        Document = "schedules.json"
)

const DateLayout = "2006-01-02"

type Trip struct {
	DepTime string `json:"depTime"`
	RouteID int64  `json:"routeId"`
}

type ScheduleEntry struct {
	CarNo string  `json:"carNo"`
	Date  *string `json:"date"`
	Trips []Trip  `json:"trips"`
}

var (
	ErrNotFound   = errors.New("not found")
	ErrParse      = errors.New("malformed JSON")
	ErrSchema     = errors.New("unexpected document shape")
	ErrValidation = errors.New("validation failed")

	// ErrSourceNotFound is a server misconfiguration; ErrScheduleNotFound is
	// the caller asking for an unknown vehicle.
	ErrSourceNotFound   = fmt.Errorf("source file %w", ErrNotFound)
	ErrScheduleNotFound = fmt.Errorf("schedule %w", ErrNotFound)
	ErrInvalidTrip      = fmt.Errorf("trip %w", ErrValidation)
)
