// Package templates is the catalog of reusable event definitions grouped by
// persona.
package templates

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/recurrence"
)

// Persona groups templates for a kind of user.
type Persona string

const (
	PersonaHomeowner     Persona = "homeowner"
	PersonaBusinessOwner Persona = "business_owner"
	PersonaLandlord      Persona = "landlord"
	PersonaEstateLegacy  Persona = "estate_legacy"
)

var personas = []Persona{PersonaHomeowner, PersonaBusinessOwner, PersonaLandlord, PersonaEstateLegacy}

// Label returns the display name of the persona.
func (p Persona) Label() string {
	switch p {
	case PersonaHomeowner:
		return "Homeowner"
	case PersonaBusinessOwner:
		return "Business Owner"
	case PersonaLandlord:
		return "Landlord"
	case PersonaEstateLegacy:
		return "Estate & Legacy"
	}
	return string(p)
}

// Valid reports whether p is a known persona.
func (p Persona) Valid() bool {
	for _, known := range personas {
		if p == known {
			return true
		}
	}
	return false
}

// ErrUnknownTemplate indicates a lookup for a key the catalog does not hold.
var ErrUnknownTemplate = errors.New("templates: unknown template")

// Template is an immutable event definition.
type Template struct {
	Key          string                `json:"key" yaml:"key"`
	Persona      Persona               `json:"persona" yaml:"persona"`
	Title        string                `json:"title" yaml:"title"`
	Category     calendar.Category     `json:"category" yaml:"category"`
	Recurrence   recurrence.Recurrence `json:"recurrence" yaml:"recurrence"`
	NotifyDayOf  bool                  `json:"notify_day_of" yaml:"notify_day_of"`
	Notify1Week  bool                  `json:"notify_1_week" yaml:"notify_1_week"`
	Notify30Days bool                  `json:"notify_30_days" yaml:"notify_30_days"`
	Description  string                `json:"description,omitempty" yaml:"description"`
}

// Group is the templates of one persona.
type Group struct {
	Persona   Persona    `json:"persona"`
	Label     string     `json:"label"`
	Templates []Template `json:"templates"`
}

// Catalog is a keyed set of templates. The zero value is empty and usable.
type Catalog struct {
	byKey map[string]Template
	order []string
}

// Lookup returns the template with key.
func (c *Catalog) Lookup(key string) (Template, bool) {
	if c == nil || c.byKey == nil {
		return Template{}, false
	}
	t, ok := c.byKey[strings.TrimSpace(key)]
	return t, ok
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// ForPersona returns the persona's templates in catalog order.
func (c *Catalog) ForPersona(p Persona) []Template {
	if c == nil {
		return nil
	}
	var out []Template
	for _, key := range c.order {
		if t := c.byKey[key]; t.Persona == p {
			out = append(out, t)
		}
	}
	return out
}

// Groups returns every non-empty persona group in display order.
func (c *Catalog) Groups() []Group {
	groups := make([]Group, 0, len(personas))
	for _, p := range personas {
		list := c.ForPersona(p)
		if len(list) == 0 {
			continue
		}
		groups = append(groups, Group{Persona: p, Label: p.Label(), Templates: list})
	}
	return groups
}

// Merge validates and adds templates. Either every template is added or none
// is; a key already in the catalog is rejected.
func (c *Catalog) Merge(list []Template) error {
	verr := &calendar.ValidationError{}
	staged := make(map[string]Template, len(list))
	order := make([]string, 0, len(list))

	for i, t := range list {
		t = normalize(t)
		prefix := fmt.Sprintf("templates[%d]", i)
		if t.Key != "" {
			prefix = fmt.Sprintf("templates[%s]", t.Key)
		}
		for field, msg := range validate(t) {
			verr.Add(prefix+"."+field, msg)
		}
		if t.Key == "" {
			continue
		}
		if _, exists := c.Lookup(t.Key); exists {
			verr.Add(prefix+".key", "duplicates an existing template")
			continue
		}
		if _, exists := staged[t.Key]; exists {
			verr.Add(prefix+".key", "is repeated")
			continue
		}
		staged[t.Key] = t
		order = append(order, t.Key)
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	if c.byKey == nil {
		c.byKey = make(map[string]Template, len(staged))
	}
	for _, key := range order {
		c.byKey[key] = staged[key]
		c.order = append(c.order, key)
	}
	return nil
}

// Keys returns every template key sorted.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	sort.Strings(out)
	return out
}

// Apply copies a template into a new event draft starting on start.
func Apply(t Template, start civil.Date) calendar.Draft {
	return calendar.Draft{
		Title:        t.Title,
		Category:     t.Category,
		StartDate:    start,
		Recurrence:   t.Recurrence,
		Notes:        t.Description,
		NotifyDayOf:  t.NotifyDayOf,
		Notify1Week:  t.Notify1Week,
		Notify30Days: t.Notify30Days,
		TemplateKey:  t.Key,
	}
}

func normalize(t Template) Template {
	t.Key = strings.TrimSpace(t.Key)
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Recurrence == "" {
		t.Recurrence = recurrence.OneTime
	}
	return t
}

func validate(t Template) map[string]string {
	problems := map[string]string{}
	if t.Key == "" {
		problems["key"] = "is required"
	}
	if t.Title == "" {
		problems["title"] = "is required"
	}
	if !t.Persona.Valid() {
		problems["persona"] = "is not a known persona"
	}
	if !t.Category.Valid() {
		problems["category"] = "is not a known category"
	}
	if !t.Recurrence.Valid() {
		problems["recurrence"] = "is not a supported recurrence"
	}
	return problems
}
