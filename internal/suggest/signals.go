package suggest

import "github.com/example/smart-calendar/internal/civil"

// Lease is a rental agreement on a property.
type Lease struct {
	ID           string     `json:"id" yaml:"id"`
	PropertyID   string     `json:"property_id" yaml:"property_id"`
	PropertyName string     `json:"property_name" yaml:"property_name"`
	TenantName   string     `json:"tenant_name" yaml:"tenant_name"`
	EndDate      civil.Date `json:"end_date" yaml:"end_date"`
}

// Warranty covers a single item or appliance.
type Warranty struct {
	ID         string     `json:"id" yaml:"id"`
	PropertyID string     `json:"property_id" yaml:"property_id"`
	ItemName   string     `json:"item_name" yaml:"item_name"`
	Provider   string     `json:"provider" yaml:"provider"`
	ExpiresOn  civil.Date `json:"expires_on" yaml:"expires_on"`
}

// InsurancePolicy is a policy with a renewal date.
type InsurancePolicy struct {
	ID           string     `json:"id" yaml:"id"`
	PropertyID   string     `json:"property_id" yaml:"property_id"`
	Kind         string     `json:"kind" yaml:"kind"`
	Carrier      string     `json:"carrier" yaml:"carrier"`
	PolicyNumber string     `json:"policy_number" yaml:"policy_number"`
	RenewalDate  civil.Date `json:"renewal_date" yaml:"renewal_date"`
}

// Document is a stored document that expires, such as a permit or license.
type Document struct {
	ID         string     `json:"id" yaml:"id"`
	PropertyID string     `json:"property_id" yaml:"property_id"`
	Title      string     `json:"title" yaml:"title"`
	Kind       string     `json:"kind" yaml:"kind"`
	ExpiresOn  civil.Date `json:"expires_on" yaml:"expires_on"`
}

// Snapshot bundles the signal records of one owner.
type Snapshot struct {
	Leases     []Lease           `json:"leases"`
	Warranties []Warranty        `json:"warranties"`
	Policies   []InsurancePolicy `json:"policies"`
	Documents  []Document        `json:"documents"`
}

// Len returns the number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Leases) + len(s.Warranties) + len(s.Policies) + len(s.Documents)
}
