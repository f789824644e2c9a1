package domain

import "time"

// Conversation is a chat thread between a tenant and a site visitor, read by
// the dashboard. Writes come from the chat widget pipeline, not this service.
type Conversation struct {
	ID           string    `json:"id" firestore:"-"`
	VisitorName  string    `json:"visitor_name,omitempty" firestore:"visitorName,omitempty"`
	VisitorEmail string    `json:"visitor_email,omitempty" firestore:"visitorEmail,omitempty"`
	LastMessage  string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	MessageCount int       `json:"message_count" firestore:"messageCount"`
	Open         bool      `json:"open" firestore:"open"`
	StartedAt    time.Time `json:"started_at" firestore:"startedAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Ticket is a support ticket raised from a conversation.
type Ticket struct {
	ID         string    `json:"id" firestore:"-"`
	Subject    string    `json:"subject" firestore:"subject"`
	Status     string    `json:"status" firestore:"status"`
	Priority   string    `json:"priority,omitempty" firestore:"priority,omitempty"`
	AssigneeID string    `json:"assignee_id,omitempty" firestore:"assigneeId,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}
