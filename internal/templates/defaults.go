package templates

import (
	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/recurrence"
)

var builtin = []Template{
	// Homeowner
	{Key: "hvac_filter", Persona: PersonaHomeowner, Title: "Replace HVAC filter", Category: calendar.CategoryHVAC, Recurrence: recurrence.Quarterly, NotifyDayOf: true, Notify1Week: true},
	{Key: "hvac_service", Persona: PersonaHomeowner, Title: "Annual HVAC service", Category: calendar.CategoryHVAC, Recurrence: recurrence.Annual, Notify1Week: true, Notify30Days: true},
	{Key: "smoke_detector_test", Persona: PersonaHomeowner, Title: "Test smoke and CO detectors", Category: calendar.CategorySafetyDevices, Recurrence: recurrence.Monthly, NotifyDayOf: true},
	{Key: "smoke_detector_batteries", Persona: PersonaHomeowner, Title: "Replace detector batteries", Category: calendar.CategorySafetyDevices, Recurrence: recurrence.SemiAnnual, NotifyDayOf: true, Notify1Week: true},
	{Key: "gutter_cleaning", Persona: PersonaHomeowner, Title: "Clean gutters", Category: calendar.CategoryRoofGutters, Recurrence: recurrence.SemiAnnual, Notify1Week: true},
	{Key: "water_heater_flush", Persona: PersonaHomeowner, Title: "Flush water heater", Category: calendar.CategoryPlumbing, Recurrence: recurrence.Annual, Notify1Week: true},
	{Key: "pest_inspection", Persona: PersonaHomeowner, Title: "Pest inspection", Category: calendar.CategoryPestControl, Recurrence: recurrence.Quarterly, Notify1Week: true},
	{Key: "lawn_care", Persona: PersonaHomeowner, Title: "Lawn and garden care", Category: calendar.CategoryLawnGarden, Recurrence: recurrence.Biweekly, NotifyDayOf: true},
	{Key: "home_insurance_review", Persona: PersonaHomeowner, Title: "Review homeowners insurance", Category: calendar.CategoryInsuranceRenewal, Recurrence: recurrence.Annual, Notify30Days: true},
	{Key: "property_tax_payment", Persona: PersonaHomeowner, Title: "Pay property tax", Category: calendar.CategoryPropertyTax, Recurrence: recurrence.SemiAnnual, Notify1Week: true, Notify30Days: true},

	// Business owner
	{Key: "business_license_renewal", Persona: PersonaBusinessOwner, Title: "Renew business license", Category: calendar.CategoryLicenseRenewal, Recurrence: recurrence.Annual, Notify1Week: true, Notify30Days: true},
	{Key: "quarterly_tax_estimate", Persona: PersonaBusinessOwner, Title: "File quarterly estimated taxes", Category: calendar.CategoryTaxFiling, Recurrence: recurrence.Quarterly, NotifyDayOf: true, Notify1Week: true, Notify30Days: true},
	{Key: "equipment_service", Persona: PersonaBusinessOwner, Title: "Service equipment", Category: calendar.CategoryEquipment, Recurrence: recurrence.SemiAnnual, Notify1Week: true},
	{Key: "vendor_contract_review", Persona: PersonaBusinessOwner, Title: "Review vendor contracts", Category: calendar.CategoryVendorContract, Recurrence: recurrence.Annual, Notify30Days: true},
	{Key: "business_insurance_renewal", Persona: PersonaBusinessOwner, Title: "Renew business insurance", Category: calendar.CategoryBusinessInsurance, Recurrence: recurrence.Annual, Notify1Week: true, Notify30Days: true},
	{Key: "fire_safety_inspection", Persona: PersonaBusinessOwner, Title: "Fire safety compliance inspection", Category: calendar.CategoryCompliance, Recurrence: recurrence.Annual, Notify30Days: true},

	// Landlord
	{Key: "rent_collection", Persona: PersonaLandlord, Title: "Collect rent", Category: calendar.CategoryRentCollection, Recurrence: recurrence.Monthly, NotifyDayOf: true},
	{Key: "rental_inspection", Persona: PersonaLandlord, Title: "Rental property inspection", Category: calendar.CategoryPropertyInspection, Recurrence: recurrence.SemiAnnual, Notify1Week: true},
	{Key: "lease_renewal_review", Persona: PersonaLandlord, Title: "Review upcoming lease renewals", Category: calendar.CategoryLeaseRenewal, Recurrence: recurrence.Quarterly, Notify1Week: true},
	{Key: "turnover_checklist", Persona: PersonaLandlord, Title: "Tenant turnover checklist", Category: calendar.CategoryTenantTurnover, Recurrence: recurrence.OneTime, NotifyDayOf: true, Notify1Week: true},
	{Key: "landlord_insurance_renewal", Persona: PersonaLandlord, Title: "Renew landlord insurance", Category: calendar.CategoryInsuranceRenewal, Recurrence: recurrence.Annual, Notify30Days: true},

	// Estate & legacy
	{Key: "will_review", Persona: PersonaEstateLegacy, Title: "Review will", Category: calendar.CategoryWillReview, Recurrence: recurrence.Annual, Notify30Days: true},
	{Key: "beneficiary_review", Persona: PersonaEstateLegacy, Title: "Review account beneficiaries", Category: calendar.CategoryBeneficiaryUpdate, Recurrence: recurrence.Annual, Notify1Week: true},
	{Key: "poa_review", Persona: PersonaEstateLegacy, Title: "Review power of attorney", Category: calendar.CategoryPowerOfAttorney, Recurrence: recurrence.Annual, Notify30Days: true},
	{Key: "passport_renewal", Persona: PersonaEstateLegacy, Title: "Renew passport", Category: calendar.CategoryDocumentRenewal, Recurrence: recurrence.OneTime, Notify1Week: true, Notify30Days: true},
	{Key: "asset_inventory", Persona: PersonaEstateLegacy, Title: "Update home asset inventory", Category: calendar.CategoryInventoryUpdate, Recurrence: recurrence.Annual, Notify1Week: true},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c := &Catalog{}
	if err := c.Merge(builtin); err != nil {
		panic("templates: invalid built-in catalog: " + err.Error())
	}
	return c
}
