package domain

import "time"

// Role distinguishes tenant admins from invited team members.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an individual account. The document ID is the Identity Service UID.
// Admins carry CompanyID for their owning tenant; members belong to tenants
// through TenantList, which is append-only.
type User struct {
	ID         string    `json:"id" firestore:"-"`
	FirstName  string    `json:"first_name" firestore:"firstName"`
	LastName   string    `json:"last_name" firestore:"lastName"`
	Email      string    `json:"email" firestore:"email"`
	Role       Role      `json:"role" firestore:"role"`
	CompanyID  string    `json:"company_id,omitempty" firestore:"companyId,omitempty"`
	TenantList []string  `json:"tenant_list" firestore:"tenantList"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PrimaryTenantID resolves the tenant whose tier should follow this user's:
// the owned company for admins, otherwise the first joined tenant.
func (u *User) PrimaryTenantID() string {
	if u.CompanyID != "" {
		return u.CompanyID
	}
	if len(u.TenantList) > 0 {
		return u.TenantList[0]
	}
	return ""
}

// DisplayName is the name registered with the Identity Service.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
