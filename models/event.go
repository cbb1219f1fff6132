package models

import (
	"time"
)

// UserType identifies the sales role a ranking or badge belongs to.
type UserType string

const (
	UserTypeEV  UserType = "EV"  // Executivo de Vendas (closes deals)
	UserTypeSDR UserType = "SDR" // Sales Development Rep (schedules meetings)
	UserTypeLDR UserType = "LDR" // Lead Development Rep (creates deals)
)

// Event is one closed/scheduled deal attributed to a person, as fetched
// from the CRM for a query window. Amount stays a raw string because the
// CRM property bag delivers it that way; parse failures count as zero.
type Event struct {
	PersonID  string
	Timestamp time.Time
	Amount    string
	DealName  string
}

// Aggregate is the per-person rollup within a time window. Built fresh on
// every request, never persisted.
type Aggregate struct {
	PersonID    string
	Count       int
	TotalAmount float64
	Timestamps  []time.Time
	DealNames   []string
}

// RankedEntry is an Aggregate plus its 1-based position and detected badges.
type RankedEntry struct {
	Position  int
	Aggregate *Aggregate
	Badges    []Badge
}
