package domain

import "time"

// VisitorLog is one analytics event under a tenant's visitorLogs
// sub-collection. Written by the public widget endpoint.
type VisitorLog struct {
	ID        string    `json:"id" firestore:"-"`
	Page      string    `json:"page,omitempty" firestore:"page,omitempty"`
	Referrer  string    `json:"referrer,omitempty" firestore:"referrer,omitempty"`
	Country   string    `json:"country,omitempty" firestore:"country,omitempty"`
	UserAgent string    `json:"user_agent,omitempty" firestore:"userAgent,omitempty"`
	At        time.Time `json:"at" firestore:"at"`
}

// VisitorStats is the dashboard summary for a tenant's traffic.
type VisitorStats struct {
	TenantID     string       `json:"tenant_id"`
	VisitorCount int64        `json:"visitor_count"`
	Recent       []VisitorLog `json:"recent"`
}
