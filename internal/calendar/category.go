package calendar

import (
	"fmt"
	"strings"
)

// Domain groups categories for filtering and rendering.
type Domain string

const (
	DomainHome     Domain = "home_property"
	DomainBusiness Domain = "business_operations"
	DomainLandlord Domain = "landlord_rental"
	DomainEstate   Domain = "estate_legacy"
)

// Label returns the display name of the domain.
func (d Domain) Label() string {
	switch d {
	case DomainHome:
		return "Home & Property"
	case DomainBusiness:
		return "Business & Operations"
	case DomainLandlord:
		return "Landlord & Rental"
	case DomainEstate:
		return "Estate & Legacy"
	}
	return string(d)
}

// Domains returns the four taxonomy domains in display order.
func Domains() []Domain {
	return []Domain{DomainHome, DomainBusiness, DomainLandlord, DomainEstate}
}

// Category is a closed enumeration of event categories. The empty value
// means the event is uncategorized.
type Category string

const (
	Uncategorized Category = ""

	// Home & Property
	CategoryHVAC             Category = "hvac_service"
	CategoryPlumbing         Category = "plumbing"
	CategoryRoofGutters      Category = "roof_gutters"
	CategoryPestControl      Category = "pest_control"
	CategoryLawnGarden       Category = "lawn_garden"
	CategoryAppliance        Category = "appliance_maintenance"
	CategorySafetyDevices    Category = "safety_devices"
	CategorySeasonal         Category = "seasonal_maintenance"
	CategoryWarranty         Category = "warranty_expiration"
	CategoryInsuranceRenewal Category = "insurance_renewal"
	CategoryPropertyTax      Category = "property_tax"

	// Business & Operations
	CategoryLicenseRenewal    Category = "license_renewal"
	CategoryTaxFiling         Category = "tax_filing"
	CategoryEquipment         Category = "equipment_maintenance"
	CategoryVendorContract    Category = "vendor_contract"
	CategoryBusinessInsurance Category = "business_insurance"
	CategoryCompliance        Category = "compliance_review"

	// Landlord & Rental
	CategoryLeaseRenewal       Category = "lease_renewal"
	CategoryLeaseEnd           Category = "lease_end"
	CategoryRentCollection     Category = "rent_collection"
	CategoryPropertyInspection Category = "property_inspection"
	CategoryTenantTurnover     Category = "tenant_turnover"

	// Estate & Legacy
	CategoryWillReview        Category = "will_review"
	CategoryBeneficiaryUpdate Category = "beneficiary_update"
	CategoryDocumentRenewal   Category = "document_renewal"
	CategoryPowerOfAttorney   Category = "power_of_attorney"
	CategoryInventoryUpdate   Category = "inventory_update"
)

// CategoryInfo is the data associated with a category.
type CategoryInfo struct {
	Label  string `json:"label"`
	Domain Domain `json:"domain"`
	Color  string `json:"color"`
}

var taxonomy = []Category{
	CategoryHVAC,
	CategoryPlumbing,
	CategoryRoofGutters,
	CategoryPestControl,
	CategoryLawnGarden,
	CategoryAppliance,
	CategorySafetyDevices,
	CategorySeasonal,
	CategoryWarranty,
	CategoryInsuranceRenewal,
	CategoryPropertyTax,
	CategoryLicenseRenewal,
	CategoryTaxFiling,
	CategoryEquipment,
	CategoryVendorContract,
	CategoryBusinessInsurance,
	CategoryCompliance,
	CategoryLeaseRenewal,
	CategoryLeaseEnd,
	CategoryRentCollection,
	CategoryPropertyInspection,
	CategoryTenantTurnover,
	CategoryWillReview,
	CategoryBeneficiaryUpdate,
	CategoryDocumentRenewal,
	CategoryPowerOfAttorney,
	CategoryInventoryUpdate,
}

var rank = func() map[Category]int {
	m := make(map[Category]int, len(taxonomy))
	for i, c := range taxonomy {
		m[c] = i
	}
	return m
}()

// Categories returns every category in taxonomy order.
func Categories() []Category {
	out := make([]Category, len(taxonomy))
	copy(out, taxonomy)
	return out
}

// CategoriesIn returns the categories belonging to d in taxonomy order.
func CategoriesIn(d Domain) []Category {
	var out []Category
	for _, c := range taxonomy {
		if info, _ := c.Info(); info.Domain == d {
			out = append(out, c)
		}
	}
	return out
}

// ParseCategory validates a stored or user supplied category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(s)))
	if c == Uncategorized {
		return Uncategorized, nil
	}
	if _, ok := c.Info(); !ok {
		return "", fmt.Errorf("calendar: unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is uncategorized or a known category.
func (c Category) Valid() bool {
	if c == Uncategorized {
		return true
	}
	_, ok := c.Info()
	return ok
}

// Label returns the display label, or "Uncategorized".
func (c Category) Label() string {
	if c == Uncategorized {
		return "Uncategorized"
	}
	info, ok := c.Info()
	if !ok {
		return string(c)
	}
	return info.Label
}

// Rank orders categories by taxonomy position. Uncategorized and unknown
// values sort after every known category.
func (c Category) Rank() int {
	if r, ok := rank[c]; ok {
		return r
	}
	return len(taxonomy)
}

// Info returns the label, domain and color for c. The switch must cover
// every constant in the taxonomy.
func (c Category) Info() (CategoryInfo, bool) {
	switch c {
	case CategoryHVAC:
		return CategoryInfo{Label: "HVAC Service", Domain: DomainHome, Color: "#2563eb"}, true
	case CategoryPlumbing:
		return CategoryInfo{Label: "Plumbing", Domain: DomainHome, Color: "#0891b2"}, true
	case CategoryRoofGutters:
		return CategoryInfo{Label: "Roof & Gutters", Domain: DomainHome, Color: "#64748b"}, true
	case CategoryPestControl:
		return CategoryInfo{Label: "Pest Control", Domain: DomainHome, Color: "#65a30d"}, true
	case CategoryLawnGarden:
		return CategoryInfo{Label: "Lawn & Garden", Domain: DomainHome, Color: "#16a34a"}, true
	case CategoryAppliance:
		return CategoryInfo{Label: "Appliance Maintenance", Domain: DomainHome, Color: "#7c3aed"}, true
	case CategorySafetyDevices:
		return CategoryInfo{Label: "Smoke & CO Detectors", Domain: DomainHome, Color: "#dc2626"}, true
	case CategorySeasonal:
		return CategoryInfo{Label: "Seasonal Maintenance", Domain: DomainHome, Color: "#ea580c"}, true
	case CategoryWarranty:
		return CategoryInfo{Label: "Warranty Expiration", Domain: DomainHome, Color: "#ca8a04"}, true
	case CategoryInsuranceRenewal:
		return CategoryInfo{Label: "Insurance Renewal", Domain: DomainHome, Color: "#0d9488"}, true
	case CategoryPropertyTax:
		return CategoryInfo{Label: "Property Tax", Domain: DomainHome, Color: "#9333ea"}, true
	case CategoryLicenseRenewal:
		return CategoryInfo{Label: "License Renewal", Domain: DomainBusiness, Color: "#1d4ed8"}, true
	case CategoryTaxFiling:
		return CategoryInfo{Label: "Tax Filing", Domain: DomainBusiness, Color: "#b91c1c"}, true
	case CategoryEquipment:
		return CategoryInfo{Label: "Equipment Maintenance", Domain: DomainBusiness, Color: "#4b5563"}, true
	case CategoryVendorContract:
		return CategoryInfo{Label: "Vendor Contract", Domain: DomainBusiness, Color: "#0369a1"}, true
	case CategoryBusinessInsurance:
		return CategoryInfo{Label: "Business Insurance", Domain: DomainBusiness, Color: "#047857"}, true
	case CategoryCompliance:
		return CategoryInfo{Label: "Compliance Review", Domain: DomainBusiness, Color: "#a16207"}, true
	case CategoryLeaseRenewal:
		return CategoryInfo{Label: "Lease Renewal", Domain: DomainLandlord, Color: "#c026d3"}, true
	case CategoryLeaseEnd:
		return CategoryInfo{Label: "Lease End", Domain: DomainLandlord, Color: "#be123c"}, true
	case CategoryRentCollection:
		return CategoryInfo{Label: "Rent Collection", Domain: DomainLandlord, Color: "#15803d"}, true
	case CategoryPropertyInspection:
		return CategoryInfo{Label: "Property Inspection", Domain: DomainLandlord, Color: "#0e7490"}, true
	case CategoryTenantTurnover:
		return CategoryInfo{Label: "Tenant Turnover", Domain: DomainLandlord, Color: "#c2410c"}, true
	case CategoryWillReview:
		return CategoryInfo{Label: "Will Review", Domain: DomainEstate, Color: "#6d28d9"}, true
	case CategoryBeneficiaryUpdate:
		return CategoryInfo{Label: "Beneficiary Update", Domain: DomainEstate, Color: "#4338ca"}, true
	case CategoryDocumentRenewal:
		return CategoryInfo{Label: "Document Renewal", Domain: DomainEstate, Color: "#b45309"}, true
	case CategoryPowerOfAttorney:
		return CategoryInfo{Label: "Power of Attorney", Domain: DomainEstate, Color: "#1e40af"}, true
	case CategoryInventoryUpdate:
		return CategoryInfo{Label: "Asset Inventory Update", Domain: DomainEstate, Color: "#57534e"}, true
	}
	return CategoryInfo{}, false
}
