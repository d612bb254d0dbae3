package models

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order. Any status may follow any other.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusReady   OrderStatus = "ready"
	OrderStatusPaid    OrderStatus = "paid"
)

// OrderStatuses lists every known status
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusReady, OrderStatusPaid}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a raw value into an OrderStatus
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return status, nil
}

// ParseOrderStatuses parses a comma separated list such as "paid,ready"
func ParseOrderStatuses(raw string) ([]OrderStatus, error) {
	var statuses []OrderStatus
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, err := ParseOrderStatus(part)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("no order statuses in %q", raw)
	}
	return statuses, nil
}
