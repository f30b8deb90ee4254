package models

import "time"

// UsageData represents one interval row stored in a gridscraper database
type UsageData struct {
	ID        int       `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Value     float64   `json:"value"`   // kWh, or m³ for gas services
	Service   string    `json:"service"` // e.g. "nyseg", "coned", "gas"
}
