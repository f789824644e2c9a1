package domain

import "time"

// Tenant represents a registered company. It is the billing and membership
// boundary: every dashboard resource hangs off a tenant document.
type Tenant struct {
	ID           string    `json:"id" firestore:"-"`
	Name         string    `json:"name" firestore:"name"`
	Address      string    `json:"address,omitempty" firestore:"address,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty" firestore:"contactEmail,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty" firestore:"contactPhone,omitempty"`
	Industry     string    `json:"industry,omitempty" firestore:"industry,omitempty"`
	Size         string    `json:"size,omitempty" firestore:"size,omitempty"`
	CompanyCode  string    `json:"company_code,omitempty" firestore:"companyCode,omitempty"`
	TaxID        string    `json:"tax_id,omitempty" firestore:"taxId,omitempty"`
	AdminEmail   string    `json:"admin_email" firestore:"adminEmail"`
	VisitorCount int64     `json:"visitor_count" firestore:"visitorCount"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

// BillingInfo is the payments/billing sub-document of a tenant.
type BillingInfo struct {
	Address string `json:"address,omitempty" firestore:"address,omitempty"`
	City    string `json:"city,omitempty" firestore:"city,omitempty"`
	Country string `json:"country,omitempty" firestore:"country,omitempty"`
	ZipCode string `json:"zip_code,omitempty" firestore:"zipCode,omitempty"`
	TaxID   string `json:"tax_id,omitempty" firestore:"taxId,omitempty"`
}

// CardInfo is the payments/cards sub-document. The fields are reserved for a
// card-on-file flow that is not part of the hosted checkout; provisioning
// writes them empty.
type CardInfo struct {
	Brand    string `json:"brand" firestore:"brand"`
	Last4    string `json:"last4" firestore:"last4"`
	ExpMonth int    `json:"exp_month" firestore:"expMonth"`
	ExpYear  int    `json:"exp_year" firestore:"expYear"`
	Holder   string `json:"holder" firestore:"holder"`
}
