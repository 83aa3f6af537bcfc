// internal/domain/models/content.go
package models

// LabelValue is a {label, value} pair used for hero stats and about-section highlights.
type LabelValue struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
}

// HeroContent is the homepage banner. Title may contain "\n" line breaks.
type HeroContent struct {
	Badge           string       `bson:"badge" json:"badge"`
	Title           string       `bson:"title" json:"title"`
	Subtitle        string       `bson:"subtitle" json:"subtitle"`
	BackgroundImage string       `bson:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
	Stats           []LabelValue `bson:"stats" json:"stats"`
}

// AboutSectionContent is the advocate summary shown on the homepage.
type AboutSectionContent struct {
	Badge        string       `bson:"badge" json:"badge"`
	Title        string       `bson:"title" json:"title"`
	Name         string       `bson:"name" json:"name"`
	Designation  string       `bson:"title_designation" json:"title_designation"`
	Experience   string       `bson:"experience" json:"experience"`
	CasesHandled string       `bson:"casesHandled" json:"casesHandled"`
	Description  string       `bson:"description" json:"description"`
	Highlights   []LabelValue `bson:"highlights" json:"highlights"`
}

// FeatureCard is one call-to-action card. Icon names an icon in the frontend set.
type FeatureCard struct {
	Icon        string `bson:"icon" json:"icon"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}

// CTAContent is the homepage call-to-action block.
type CTAContent struct {
	Title      string        `bson:"title" json:"title"`
	Subtitle   string        `bson:"subtitle" json:"subtitle"`
	ButtonText string        `bson:"buttonText" json:"buttonText"`
	Features   []FeatureCard `bson:"features" json:"features"`
}

// Testimonial ratings are bounded to this range inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// TestimonialItem is a single client review.
type TestimonialItem struct {
	ID       int    `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Role     string `bson:"role" json:"role"`
	Content  string `bson:"content" json:"content"`
	Rating   int    `bson:"rating" json:"rating"`
	Location string `bson:"location" json:"location"`
}

// ValidRating reports whether r is within MinRating..MaxRating.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// ClampRating forces r into MinRating..MaxRating.
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// TestimonialsContent holds the testimonials page copy and review list.
type TestimonialsContent struct {
	Badge        string            `bson:"badge" json:"badge"`
	HeroTitle    string            `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle string            `bson:"heroSubtitle" json:"heroSubtitle"`
	Items        []TestimonialItem `bson:"items" json:"items"`
}

// NextID returns one more than the largest item id.
func (t *TestimonialsContent) NextID() int {
	max := 0
	for _, it := range t.Items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

// PracticeAreaItem is one service in the catalog.
//
// ID is the public URL slug. It is edited independently of Title and never
// derived from it after creation.
type PracticeAreaItem struct {
	ID              string   `bson:"id" json:"id"`
	Icon            string   `bson:"icon" json:"icon"`
	Title           string   `bson:"title" json:"title"`
	Description     string   `bson:"description" json:"description"`
	FullDescription string   `bson:"fullDescription" json:"fullDescription"`
	Services        []string `bson:"services" json:"services"`
	Courts          []string `bson:"courts" json:"courts"`
	Cases           string   `bson:"cases" json:"cases"`
	SuccessRate     string   `bson:"successRate" json:"successRate"`
	IsActive        bool     `bson:"isActive" json:"isActive"`
}

// PracticeAreasContent holds the practice areas page copy and the catalog.
type PracticeAreasContent struct {
	Badge        string             `bson:"badge" json:"badge"`
	HeroTitle    string             `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle string             `bson:"heroSubtitle" json:"heroSubtitle"`
	Items        []PracticeAreaItem `bson:"items" json:"items"`
}

// Active returns the areas visible on public pages, in catalog order.
func (p *PracticeAreasContent) Active() []PracticeAreaItem {
	out := make([]PracticeAreaItem, 0, len(p.Items))
	for _, it := range p.Items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the index of the area with the given slug, or -1.
func (p *PracticeAreasContent) Find(slug string) int {
	for i, it := range p.Items {
		if it.ID == slug {
			return i
		}
	}
	return -1
}

// TimelineItem is one entry on the biography timeline.
type TimelineItem struct {
	Year        string `bson:"year" json:"year"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}

// AboutPageContent is the biography page.
type AboutPageContent struct {
	Badge           string         `bson:"badge" json:"badge"`
	HeroTitle       string         `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle    string         `bson:"heroSubtitle" json:"heroSubtitle"`
	AdvocateName    string         `bson:"advocateName" json:"advocateName"`
	AdvocateTitle   string         `bson:"advocateTitle" json:"advocateTitle"`
	Education       string         `bson:"education" json:"education"`
	Location        string         `bson:"location" json:"location"`
	Bio             []string       `bson:"bio" json:"bio"`
	Certifications  []string       `bson:"certifications" json:"certifications"`
	Timeline        []TimelineItem `bson:"timeline" json:"timeline"`
	EthicsStatement string         `bson:"ethicsStatement" json:"ethicsStatement"`
}

// ArticleItem is a knowledge base article. Content is Markdown.
type ArticleItem struct {
	ID       int    `bson:"id" json:"id"`
	Title    string `bson:"title" json:"title"`
	Excerpt  string `bson:"excerpt" json:"excerpt"`
	Content  string `bson:"content" json:"content"`
	Category string `bson:"category" json:"category"`
	Date     string `bson:"date" json:"date"`
	ReadTime string `bson:"readTime" json:"readTime"`
	Featured bool   `bson:"featured" json:"featured"`
}

// FAQItem is a question and answer pair.
type FAQItem struct {
	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}

// KnowledgeContent holds articles and FAQs.
type KnowledgeContent struct {
	Badge        string        `bson:"badge" json:"badge"`
	HeroTitle    string        `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle string        `bson:"heroSubtitle" json:"heroSubtitle"`
	Articles     []ArticleItem `bson:"articles" json:"articles"`
	FAQs         []FAQItem     `bson:"faqs" json:"faqs"`
}

// ContactContent drives the contact page and the site footer.
type ContactContent struct {
	Badge        string `bson:"badge" json:"badge"`
	HeroTitle    string `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle string `bson:"heroSubtitle" json:"heroSubtitle"`
	Address      string `bson:"address" json:"address"`
	Phone        string `bson:"phone" json:"phone"`
	OfficePhone  string `bson:"officePhone" json:"officePhone"`
	Email        string `bson:"email" json:"email"`
	InquiryEmail string `bson:"inquiryEmail" json:"inquiryEmail"`
	Hours        string `bson:"hours" json:"hours"`
	MapEmbed     string `bson:"mapEmbed" json:"mapEmbed"`
}

// InquiryPageContent is the copy shown on the booking page.
type InquiryPageContent struct {
	Badge        string `bson:"badge" json:"badge"`
	HeroTitle    string `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle string `bson:"heroSubtitle" json:"heroSubtitle"`
	FormTitle    string `bson:"formTitle" json:"formTitle"`
	FormSubtitle string `bson:"formSubtitle" json:"formSubtitle"`
}

// SettingsContent is the firm configuration.
//
// InquiryFee and Currency are the price quoted on the booking page and
// copied onto every new inquiry. AdminPassword holds a bcrypt hash.
type SettingsContent struct {
	FirmName      string  `bson:"firmName" json:"firmName"`
	AdvocateName  string  `bson:"advocateName" json:"advocateName"`
	Email         string  `bson:"email" json:"email"`
	Phone         string  `bson:"phone" json:"phone"`
	Address       string  `bson:"address" json:"address"`
	InquiryFee    float64 `bson:"inquiryFee" json:"inquiryFee"`
	Currency      string  `bson:"currency" json:"currency"`
	AdminEmail    string  `bson:"adminEmail,omitempty" json:"adminEmail,omitempty"`
	AdminPassword string  `bson:"adminPassword,omitempty" json:"adminPassword,omitempty"`
}

// Redacted returns a copy without admin credentials.
func (s SettingsContent) Redacted() SettingsContent {
	s.AdminEmail = ""
	s.AdminPassword = ""
	return s
}

// HasAdminCredentials reports whether an admin login is configured.
func (s *SettingsContent) HasAdminCredentials() bool {
	return s.AdminEmail != "" && s.AdminPassword != ""
}

// SiteContent is the aggregate of every section. A nil field means the
// section has not been observed yet.
type SiteContent struct {
	Hero          *HeroContent          `json:"hero"`
	AboutSection  *AboutSectionContent  `json:"aboutSection"`
	CTA           *CTAContent           `json:"cta"`
	Testimonials  *TestimonialsContent  `json:"testimonials"`
	PracticeAreas *PracticeAreasContent `json:"practiceAreas"`
	AboutPage     *AboutPageContent     `json:"aboutPage"`
	Knowledge     *KnowledgeContent     `json:"knowledge"`
	Contact       *ContactContent       `json:"contact"`
	InquiryPage   *InquiryPageContent   `json:"inquiryPage"`
	Settings      *SettingsContent      `json:"settings"`
}
