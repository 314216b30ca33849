package suggest

import (
	"fmt"
	"strings"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
)

// Rule names a fixed inference rule. Suggestion keys are "<rule>_<source id>".
type Rule string

const (
	RuleLeaseEnd         Rule = "lease_end"
	RuleLeaseNotice      Rule = "lease_notice"
	RuleWarranty         Rule = "warranty"
	RuleInsuranceRenewal Rule = "insurance_renewal"
	RuleDocumentExpiry   Rule = "document_expiry"
)

// LeaseNoticeDays is how long before a lease ends the renewal notice is suggested.
const LeaseNoticeDays = 60

// Key returns the stable suggestion key for sourceID under rule r.
func (r Rule) Key(sourceID string) string {
	return string(r) + "_" + strings.TrimSpace(sourceID)
}

type candidate struct {
	suggestion Suggestion
	err        *InferenceError
}

type inferFunc func(Snapshot) []candidate

var rules = []inferFunc{
	leaseEndRule,
	leaseNoticeRule,
	warrantyRule,
	insuranceRule,
	documentRule,
}

func check(rule Rule, id string, date civil.Date) *InferenceError {
	id = strings.TrimSpace(id)
	if id == "" {
		return &InferenceError{Rule: rule, Err: ErrMissingID}
	}
	if date.IsZero() {
		return &InferenceError{Rule: rule, SourceID: id, Err: ErrMissingDate}
	}
	return nil
}

func propertyRef(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func leaseSubject(l Lease) string {
	return firstNonEmpty(l.PropertyName, l.TenantName, "lease "+strings.TrimSpace(l.ID))
}

func leaseEndRule(s Snapshot) []candidate {
	out := make([]candidate, 0, len(s.Leases))
	for _, l := range s.Leases {
		if err := check(RuleLeaseEnd, l.ID, l.EndDate); err != nil {
			out = append(out, candidate{err: err})
			continue
		}
		notes := "Lease term ends."
		if tenant := strings.TrimSpace(l.TenantName); tenant != "" {
			notes = fmt.Sprintf("Lease with %s ends. Arrange move-out inspection or renewal.", tenant)
		}
		out = append(out, candidate{suggestion: Suggestion{
			Key:              RuleLeaseEnd.Key(l.ID),
			Rule:             RuleLeaseEnd,
			SourceID:         strings.TrimSpace(l.ID),
			Title:            "Lease ends: " + leaseSubject(l),
			Category:         calendar.CategoryLeaseEnd,
			StartDate:        l.EndDate,
			Notes:            notes,
			Source:           "Lease record",
			LinkedPropertyID: propertyRef(l.PropertyID),
		}})
	}
	return out
}

func leaseNoticeRule(s Snapshot) []candidate {
	out := make([]candidate, 0, len(s.Leases))
	for _, l := range s.Leases {
		if err := check(RuleLeaseNotice, l.ID, l.EndDate); err != nil {
			out = append(out, candidate{err: err})
			continue
		}
		out = append(out, candidate{suggestion: Suggestion{
			Key:              RuleLeaseNotice.Key(l.ID),
			Rule:             RuleLeaseNotice,
			SourceID:         strings.TrimSpace(l.ID),
			Title:            "Send lease renewal notice: " + leaseSubject(l),
			Category:         calendar.CategoryLeaseRenewal,
			StartDate:        l.EndDate.AddDays(-LeaseNoticeDays),
			Notes:            fmt.Sprintf("Lease ends on %s. Decide on renewal and notify the tenant.", l.EndDate),
			Source:           "Lease record",
			LinkedPropertyID: propertyRef(l.PropertyID),
		}})
	}
	return out
}

func warrantyRule(s Snapshot) []candidate {
	out := make([]candidate, 0, len(s.Warranties))
	for _, w := range s.Warranties {
		if err := check(RuleWarranty, w.ID, w.ExpiresOn); err != nil {
			out = append(out, candidate{err: err})
			continue
		}
		item := firstNonEmpty(w.ItemName, "item")
		notes := "Warranty coverage ends. Schedule any claims or service before expiry."
		if provider := strings.TrimSpace(w.Provider); provider != "" {
			notes = fmt.Sprintf("Warranty from %s ends. Schedule any claims or service before expiry.", provider)
		}
		out = append(out, candidate{suggestion: Suggestion{
			Key:              RuleWarranty.Key(w.ID),
			Rule:             RuleWarranty,
			SourceID:         strings.TrimSpace(w.ID),
			Title:            "Warranty expires: " + item,
			Category:         calendar.CategoryWarranty,
			StartDate:        w.ExpiresOn,
			Notes:            notes,
			Source:           "Warranty record",
			LinkedPropertyID: propertyRef(w.PropertyID),
		}})
	}
	return out
}

// insuranceCategory maps a policy kind onto the taxonomy.
func insuranceCategory(kind string) calendar.Category {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "business", "commercial", "liability", "workers_comp", "professional":
		return calendar.CategoryBusinessInsurance
	}
	return calendar.CategoryInsuranceRenewal
}

func insuranceRule(s Snapshot) []candidate {
	out := make([]candidate, 0, len(s.Policies))
	for _, p := range s.Policies {
		if err := check(RuleInsuranceRenewal, p.ID, p.RenewalDate); err != nil {
			out = append(out, candidate{err: err})
			continue
		}
		title := "Renew insurance policy"
		if kind := strings.TrimSpace(p.Kind); kind != "" {
			title = fmt.Sprintf("Renew %s insurance", strings.ReplaceAll(kind, "_", " "))
		}
		if carrier := strings.TrimSpace(p.Carrier); carrier != "" {
			title += " (" + carrier + ")"
		}
		notes := "Review coverage and premiums before renewal."
		if num := strings.TrimSpace(p.PolicyNumber); num != "" {
			notes = fmt.Sprintf("Policy %s renews. Review coverage and premiums before renewal.", num)
		}
		out = append(out, candidate{suggestion: Suggestion{
			Key:              RuleInsuranceRenewal.Key(p.ID),
			Rule:             RuleInsuranceRenewal,
			SourceID:         strings.TrimSpace(p.ID),
			Title:            title,
			Category:         insuranceCategory(p.Kind),
			StartDate:        p.RenewalDate,
			Notes:            notes,
			Source:           "Insurance policy",
			LinkedPropertyID: propertyRef(p.PropertyID),
		}})
	}
	return out
}

// documentCategory maps a document kind onto the taxonomy.
func documentCategory(kind string) calendar.Category {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "license", "permit", "registration":
		return calendar.CategoryLicenseRenewal
	case "will", "trust":
		return calendar.CategoryWillReview
	case "power_of_attorney":
		return calendar.CategoryPowerOfAttorney
	case "contract":
		return calendar.CategoryVendorContract
	}
	return calendar.CategoryDocumentRenewal
}

func documentRule(s Snapshot) []candidate {
	out := make([]candidate, 0, len(s.Documents))
	for _, d := range s.Documents {
		if err := check(RuleDocumentExpiry, d.ID, d.ExpiresOn); err != nil {
			out = append(out, candidate{err: err})
			continue
		}
		out = append(out, candidate{suggestion: Suggestion{
			Key:              RuleDocumentExpiry.Key(d.ID),
			Rule:             RuleDocumentExpiry,
			SourceID:         strings.TrimSpace(d.ID),
			Title:            firstNonEmpty(d.Title, "Document") + " expires",
			Category:         documentCategory(d.Kind),
			StartDate:        d.ExpiresOn,
			Notes:            "Renew or replace this document before it lapses.",
			Source:           "Document record",
			LinkedPropertyID: propertyRef(d.PropertyID),
		}})
	}
	return out
}
