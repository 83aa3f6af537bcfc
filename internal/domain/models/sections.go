// internal/domain/models/sections.go
package models

import (
	"fmt"
)

// Section names one independently stored partition of SiteContent.
// The string value is the aggregate's property name.
type Section string

const (
	SectionHero          Section = "hero"
	SectionAboutSection  Section = "aboutSection"
	SectionCTA           Section = "cta"
	SectionTestimonials  Section = "testimonials"
	SectionPracticeAreas Section = "practiceAreas"
	SectionAboutPage     Section = "aboutPage"
	SectionKnowledge     Section = "knowledge"
	SectionContact       Section = "contact"
	SectionInquiryPage   Section = "inquiryPage"
	SectionSettings      Section = "settings"
)

// ContentCollection is the collection holding one document per section.
const ContentCollection = "content"

// sectionKeys maps a section to the _id of its stored document.
var sectionKeys = map[Section]string{
	SectionHero:          "hero",
	SectionAboutSection:  "about_section",
	SectionCTA:           "cta",
	SectionTestimonials:  "testimonials",
	SectionPracticeAreas: "practice_areas",
	SectionAboutPage:     "about_page",
	SectionKnowledge:     "knowledge",
	SectionContact:       "contact",
	SectionInquiryPage:   "inquiry_page",
	SectionSettings:      "settings",
}

// AllSections returns every section in a stable order.
func AllSections() []Section {
	return []Section{
		SectionHero,
		SectionAboutSection,
		SectionCTA,
		SectionTestimonials,
		SectionPracticeAreas,
		SectionAboutPage,
		SectionKnowledge,
		SectionContact,
		SectionInquiryPage,
		SectionSettings,
	}
}

// Key returns the storage key of the section, or "" if unknown.
func (s Section) Key() string {
	return sectionKeys[s]
}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	_, ok := sectionKeys[s]
	return ok
}

func (s Section) String() string { return string(s) }

// ParseSection accepts either the property name ("aboutSection") or the
// storage key ("about_section").
func ParseSection(name string) (Section, error) {
	if s := Section(name); s.Valid() {
		return s, nil
	}
	for s, key := range sectionKeys {
		if key == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown content section %q", name)
}

// NewSectionValue returns a pointer to a zero value of the section's type,
// or nil for an unknown section.
func NewSectionValue(s Section) any {
	switch s {
	case SectionHero:
		return &HeroContent{}
	case SectionAboutSection:
		return &AboutSectionContent{}
	case SectionCTA:
		return &CTAContent{}
	case SectionTestimonials:
		return &TestimonialsContent{}
	case SectionPracticeAreas:
		return &PracticeAreasContent{}
	case SectionAboutPage:
		return &AboutPageContent{}
	case SectionKnowledge:
		return &KnowledgeContent{}
	case SectionContact:
		return &ContactContent{}
	case SectionInquiryPage:
		return &InquiryPageContent{}
	case SectionSettings:
		return &SettingsContent{}
	}
	return nil
}

// Get returns the section's current value (a typed pointer, possibly nil).
func (c *SiteContent) Get(s Section) any {
	switch s {
	case SectionHero:
		return c.Hero
	case SectionAboutSection:
		return c.AboutSection
	case SectionCTA:
		return c.CTA
	case SectionTestimonials:
		return c.Testimonials
	case SectionPracticeAreas:
		return c.PracticeAreas
	case SectionAboutPage:
		return c.AboutPage
	case SectionKnowledge:
		return c.Knowledge
	case SectionContact:
		return c.Contact
	case SectionInquiryPage:
		return c.InquiryPage
	case SectionSettings:
		return c.Settings
	}
	return nil
}

// Has reports whether the section has a value.
func (c *SiteContent) Has(s Section) bool {
	switch s {
	case SectionHero:
		return c.Hero != nil
	case SectionAboutSection:
		return c.AboutSection != nil
	case SectionCTA:
		return c.CTA != nil
	case SectionTestimonials:
		return c.Testimonials != nil
	case SectionPracticeAreas:
		return c.PracticeAreas != nil
	case SectionAboutPage:
		return c.AboutPage != nil
	case SectionKnowledge:
		return c.Knowledge != nil
	case SectionContact:
		return c.Contact != nil
	case SectionInquiryPage:
		return c.InquiryPage != nil
	case SectionSettings:
		return c.Settings != nil
	}
	return false
}

// Set replaces the whole value of one section. v must be the pointer type
// returned by NewSectionValue for s.
func (c *SiteContent) Set(s Section, v any) error {
	ok := true
	switch s {
	case SectionHero:
		c.Hero, ok = v.(*HeroContent)
	case SectionAboutSection:
		c.AboutSection, ok = v.(*AboutSectionContent)
	case SectionCTA:
		c.CTA, ok = v.(*CTAContent)
	case SectionTestimonials:
		c.Testimonials, ok = v.(*TestimonialsContent)
	case SectionPracticeAreas:
		c.PracticeAreas, ok = v.(*PracticeAreasContent)
	case SectionAboutPage:
		c.AboutPage, ok = v.(*AboutPageContent)
	case SectionKnowledge:
		c.Knowledge, ok = v.(*KnowledgeContent)
	case SectionContact:
		c.Contact, ok = v.(*ContactContent)
	case SectionInquiryPage:
		c.InquiryPage, ok = v.(*InquiryPageContent)
	case SectionSettings:
		c.Settings, ok = v.(*SettingsContent)
	default:
		return fmt.Errorf("unknown content section %q", string(s))
	}
	if !ok {
		return fmt.Errorf("section %s: unexpected value type %T", s, v)
	}
	return nil
}
