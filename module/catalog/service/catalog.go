package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/chim712/shuttle-roid-TestServer/module/catalog/domain"
	"github.com/chim712/shuttle-roid-TestServer/module/catalog/internal/repository/source"
)

type CatalogService struct {
	reader source.DocumentReader
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewCatalogService(reader source.DocumentReader, logger *zap.SugaredLogger) *CatalogService {
	return &CatalogService{
		reader: reader,
		logger: logger,
		now:    time.Now,
	}
}

// CheckUpdate reports whether the server's updateFlag is newer than the
// client's. orgID is logged only.
func (s *CatalogService) CheckUpdate(ctx context.Context, clientFlag, orgID int64) (bool, error) {
	obj, err := s.readObject(ctx, domain.UpdateDescriptorDoc)
	if err != nil {
		return false, err
	}

	serverFlag, err := updateFlag(obj)
	if err != nil {
		return false, fmt.Errorf("%s: %w", domain.UpdateDescriptorDoc, err)
	}

	s.logger.Infow("update check", "org_id", orgID, "client_flag", clientFlag, "server_flag", serverFlag)
	return serverFlag > clientFlag, nil
}

// FetchPayload returns the payload document verbatim once it is known to be
// valid JSON.
func (s *CatalogService) FetchPayload(ctx context.Context, orgID int64) (json.RawMessage, error) {
	data, err := s.reader.ReadDocument(ctx, domain.PayloadDoc)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: %w", domain.PayloadDoc, domain.ErrParse)
	}

	s.logger.Infow("payload fetched", "org_id", orgID, "bytes", len(data))
	return json.RawMessage(data), nil
}

// GetSchedule picks the first entry for carNo dated today (or undated),
// falling back to the first entry for carNo on any date.
func (s *CatalogService) GetSchedule(ctx context.Context, carNo string) (*domain.ScheduleEntry, error) {
	obj, err := s.readObject(ctx, domain.SchedulesDoc)
	if err != nil {
		return nil, err
	}

	raw, ok := obj["schedules"]
	if !ok || !isArray(raw) {
		return nil, fmt.Errorf("%s must contain a schedules array: %w", domain.SchedulesDoc, domain.ErrSchema)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s schedules: %w", domain.SchedulesDoc, domain.ErrSchema)
	}

	entries := make([]map[string]json.RawMessage, len(items))
	for i, item := range items {
		if entries[i], err = decodeObject(item); err != nil {
			return nil, fmt.Errorf("%s schedules[%d]: %w", domain.SchedulesDoc, i, err)
		}
	}

	today := s.now().Format(domain.DateLayout)
	selected := firstMatch(entries, func(e map[string]json.RawMessage) bool {
		if !carNoIs(e, carNo) {
			return false
		}
		date, present := e["date"]
		if !present {
			return true
		}
		d, ok := decodeString(date)
		return ok && d == today
	})
	if selected == nil {
		selected = firstMatch(entries, func(e map[string]json.RawMessage) bool {
			return carNoIs(e, carNo)
		})
	}
	if selected == nil {
		return nil, fmt.Errorf("carNo=%s: %w", carNo, domain.ErrScheduleNotFound)
	}

	return toScheduleEntry(carNo, selected)
}

func (s *CatalogService) readObject(ctx context.Context, doc domain.Document) (map[string]json.RawMessage, error) {
	data, err := s.reader.ReadDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: %w", doc, domain.ErrParse)
	}
	obj, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc, err)
	}
	return obj, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("expected a JSON object: %w", domain.ErrSchema)
	}
	return obj, nil
}

func updateFlag(obj map[string]json.RawMessage) (int64, error) {
	raw, ok := obj["updateFlag"]
	if !ok {
		return 0, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("updateFlag: %w", domain.ErrSchema)
	}
	switch flag := v.(type) {
	case float64:
		if !fitsInt64(flag) {
			return 0, fmt.Errorf("updateFlag %v out of range: %w", flag, domain.ErrSchema)
		}
		return int64(math.Trunc(flag)), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(flag), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("updateFlag %q: %w", flag, domain.ErrSchema)
		}
		return n, nil
	case bool:
		if flag {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("updateFlag must be an integer: %w", domain.ErrSchema)
}

func firstMatch(entries []map[string]json.RawMessage, match func(map[string]json.RawMessage) bool) map[string]json.RawMessage {
	for _, e := range entries {
		if match(e) {
			return e
		}
	}
	return nil
}

func carNoIs(e map[string]json.RawMessage, carNo string) bool {
	v, ok := decodeString(e["carNo"])
	return ok && v == carNo
}

func toScheduleEntry(carNo string, e map[string]json.RawMessage) (*domain.ScheduleEntry, error) {
	out := &domain.ScheduleEntry{CarNo: carNo}

	if raw, ok := e["date"]; ok && !isNull(raw) {
		d, ok := decodeString(raw)
		if !ok {
			return nil, fmt.Errorf("carNo=%s date must be a string: %w", carNo, domain.ErrSchema)
		}
		out.Date = &d
	}

	raw, ok := e["trips"]
	if !ok || !isArray(raw) {
		return nil, fmt.Errorf("carNo=%s must contain a trips array: %w", carNo, domain.ErrSchema)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("carNo=%s trips: %w", carNo, domain.ErrSchema)
	}

	out.Trips = make([]domain.Trip, 0, len(items))
	for i, item := range items {
		trip, err := toTrip(item)
		if err != nil {
			return nil, fmt.Errorf("carNo=%s trips[%d]: %w", carNo, i, err)
		}
		out.Trips = append(out.Trips, trip)
	}
	return out, nil
}

func toTrip(raw json.RawMessage) (domain.Trip, error) {
	var t map[string]json.RawMessage
	if err := json.Unmarshal(raw, &t); err != nil || t == nil {
		return domain.Trip{}, fmt.Errorf("not an object: %w", domain.ErrInvalidTrip)
	}

	depTime, ok := decodeString(t["depTime"])
	if !ok {
		return domain.Trip{}, fmt.Errorf("depTime must be a string: %w", domain.ErrInvalidTrip)
	}

	routeID, ok := decodeInt(t["routeId"])
	if !ok {
		return domain.Trip{}, fmt.Errorf("routeId must be an integer: %w", domain.ErrInvalidTrip)
	}

	return domain.Trip{DepTime: depTime, RouteID: routeID}, nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeInt accepts integral numbers, numeric strings and booleans as 1/0.
func decodeInt(raw json.RawMessage) (int64, bool) {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || !fitsInt64(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// fitsInt64 reports whether f converts to int64 without overflow.
func fitsInt64(f float64) bool {
	return f >= math.MinInt64 && f < math.MaxInt64
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
