// internal/domain/models/defaults.go
package models

// Default content written into a section that has no stored record.
// Every call returns freshly allocated values so callers may mutate them.

// DefaultInquiryFee and DefaultCurrency price a consultation until an admin changes settings.
const (
	DefaultInquiryFee = 499
	DefaultCurrency   = "INR"
)

// DefaultSiteContent returns the full default aggregate.
func DefaultSiteContent() SiteContent {
	var c SiteContent
	for _, s := range AllSections() {
		_ = c.Set(s, DefaultSection(s))
	}
	return c
}

// DefaultSection returns the default value of one section as the pointer
// type NewSectionValue returns, or nil for an unknown section.
func DefaultSection(s Section) any {
	switch s {
	case SectionHero:
		return defaultHero()
	case SectionAboutSection:
		return defaultAboutSection()
	case SectionCTA:
		return defaultCTA()
	case SectionTestimonials:
		return defaultTestimonials()
	case SectionPracticeAreas:
		return defaultPracticeAreas()
	case SectionAboutPage:
		return defaultAboutPage()
	case SectionKnowledge:
		return defaultKnowledge()
	case SectionContact:
		return defaultContact()
	case SectionInquiryPage:
		return defaultInquiryPage()
	case SectionSettings:
		return defaultSettings()
	}
	return nil
}

func defaultHero() *HeroContent {
	return &HeroContent{
		Badge:    "LEGAL EXCELLENCE SINCE 2003",
		Title:    "Precision in Law,\nResilience in Advocacy",
		Subtitle: "Your journey to justice begins with a strategic defense. We provide sophisticated legal solutions for complex challenges in Criminal, Civil, and Corporate law.",
		Stats: []LabelValue{
			{Label: "Cases Won", Value: "2,500+"},
			{Label: "Years Experience", Value: "20+"},
			{Label: "Success Rate", Value: "95%"},
		},
	}
}

func defaultAboutSection() *AboutSectionContent {
	return &AboutSectionContent{
		Badge:        "About the Advocate",
		Title:        "Dedicated to Justice & Client Success",
		Name:         "Adv. Arun Kumar",
		Designation:  "Senior Advocate – Supreme Court of India",
		Experience:   "20+",
		CasesHandled: "2,500+",
		Description:  "With over two decades of experience in criminal, civil, and corporate law, Advocate Arun Kumar has built a reputation for unwavering dedication and exceptional results. His approach combines strategic thinking with a deep commitment to justice.",
		Highlights: []LabelValue{
			{Label: "Cases Handled", Value: "2,500+"},
			{Label: "Years Experience", Value: "20+"},
			{Label: "Success Rate", Value: "95%"},
			{Label: "High Courts", Value: "8"},
		},
	}
}

func defaultCTA() *CTAContent {
	return &CTAContent{
		Title:      "Ready to Get the Legal Help You Deserve?",
		Subtitle:   "Book a consultation today and get a detailed legal assessment of your case within 24 hours. Our team is ready to fight for your rights.",
		ButtonText: "Book Consultation",
		Features: []FeatureCard{
			{Icon: "Clock", Title: "24-Hour Response", Description: "Receive a detailed legal assessment within 24 hours of booking"},
			{Icon: "Shield", Title: "Confidential", Description: "All consultations are completely confidential and secure"},
			{Icon: "Award", Title: "Expert Guidance", Description: "20+ years of expertise across all major areas of law"},
		},
	}
}

func defaultTestimonials() *TestimonialsContent {
	return &TestimonialsContent{
		Badge:        "SUCCESS STORIES",
		HeroTitle:    "The Voices of the People We Represent",
		HeroSubtitle: "Our legacy is built on the success of our clients. Explore honest reflections on our service from the individuals and businesses who have trusted us with their most critical legal matters.",
		Items: []TestimonialItem{
			{ID: 1, Name: "Rajesh Sharma", Role: "Business Owner", Rating: 5, Location: "Delhi",
				Content: "Advocate Kumar handled my property dispute case with exceptional professionalism. His strategic approach and deep knowledge of property law helped us secure a favorable judgment. Highly recommended for any real estate legal matters."},
			{ID: 2, Name: "Priya Mehta", Role: "Corporate Executive", Rating: 5, Location: "Gurgaon",
				Content: "During a challenging family law matter, Advocate Kumar provided not just legal expertise but also emotional support. His compassionate yet strategic approach made a difficult situation manageable. Forever grateful."},
			{ID: 3, Name: "Vikram Singh", Role: "Entrepreneur", Rating: 5, Location: "Noida",
				Content: "Our company has been working with Advocate Kumar for corporate legal matters for over 5 years. His understanding of business law and quick response time have been invaluable for our operations."},
			{ID: 4, Name: "Anita Desai", Role: "Homemaker", Rating: 5, Location: "Delhi",
				Content: "I was falsely accused in a criminal case. Advocate Kumar believed in my innocence and fought tirelessly. His courtroom skills and dedication resulted in my complete acquittal. He truly fights for justice."},
			{ID: 5, Name: "Suresh Nair", Role: "Software Engineer", Rating: 5, Location: "Mumbai",
				Content: "Advocate Kumar resolved my consumer dispute against a major telecom company swiftly and efficiently. His thorough understanding of consumer law and confident advocacy saved me significant time and money."},
		},
	}
}

func defaultPracticeAreas() *PracticeAreasContent {
	return &PracticeAreasContent{
		Badge:        "AREAS OF PRACTICE",
		HeroTitle:    "Comprehensive Legal Solutions Tailored for You",
		HeroSubtitle: "Explore our specialized legal domains where deep technical knowledge meets relentless advocacy. We handle every case with the precision it demands.",
		Items: []PracticeAreaItem{
			{
				ID: "criminal", Icon: "Scale", Title: "Criminal Law",
				Description:     "Expert defense in criminal matters with a proven track record of successful representations.",
				FullDescription: "Our criminal law practice offers comprehensive defense services for individuals facing criminal charges. With over 800 successful case resolutions, we bring decades of experience in navigating the complexities of criminal proceedings.",
				Services:        []string{"Bail Applications & Appeals", "Criminal Trial Defense", "White Collar Crime Defense", "Cybercrime Cases", "Appeals in Higher Courts", "Anticipatory Bail", "Quashing of FIRs", "Criminal Writ Petitions"},
				Courts:          []string{"Supreme Court of India", "Delhi High Court", "District & Sessions Courts", "Magistrate Courts"},
				Cases:           "800+", SuccessRate: "96%", IsActive: true,
			},
			{
				ID: "civil", Icon: "FileText", Title: "Civil Litigation",
				Description:     "Strategic resolution of civil disputes with focus on client interests.",
				FullDescription: "We handle all aspects of civil litigation, from initial dispute assessment to trial and appeals. Our methodical approach ensures thorough preparation and effective advocacy for our clients.",
				Services:        []string{"Property Disputes", "Recovery Suits", "Declaratory Suits", "Injunction Matters", "Contract Disputes", "Partition Suits", "Civil Appeals", "Execution Proceedings"},
				Courts:          []string{"Civil Courts", "District Courts", "High Court", "Consumer Forums"},
				Cases:           "600+", SuccessRate: "94%", IsActive: true,
			},
			{
				ID: "family", Icon: "Users", Title: "Family Law",
				Description:     "Compassionate handling of sensitive family matters with discretion.",
				FullDescription: "Family legal matters require sensitivity, understanding, and discretion. Our family law practice provides compassionate counsel while vigorously protecting our clients rights and interests.",
				Services:        []string{"Divorce Proceedings", "Child Custody & Visitation", "Maintenance & Alimony", "Domestic Violence Cases", "Guardianship Matters", "Adoption Legal Support", "Marriage Registration", "Pre-nuptial Agreements"},
				Courts:          []string{"Family Courts", "District Courts", "High Court", "Mediation Centers"},
				Cases:           "400+", SuccessRate: "92%", IsActive: true,
			},
			{
				ID: "property", Icon: "Home", Title: "Property Law",
				Description:     "Comprehensive property legal services for individuals and businesses.",
				FullDescription: "Property transactions and disputes require meticulous attention to detail. Our property law practice covers all aspects of real estate legal matters, ensuring your property rights are protected.",
				Services:        []string{"Title Verification", "Property Registration", "Sale & Purchase Agreements", "Lease Documentation", "Property Disputes", "Landlord-Tenant Matters", "Development Agreements", "RERA Compliance"},
				Courts:          []string{"Civil Courts", "Revenue Courts", "High Court", "RERA Authority"},
				Cases:           "350+", SuccessRate: "95%", IsActive: true,
			},
			{
				ID: "corporate", Icon: "Building2", Title: "Corporate Law",
				Description:     "Business legal solutions for startups, SMEs, and corporations.",
				FullDescription: "We provide comprehensive corporate legal services to businesses of all sizes. From company formation to complex commercial transactions, our team ensures your business operates within legal frameworks.",
				Services:        []string{"Company Registration", "Contract Drafting & Review", "Shareholder Agreements", "Corporate Compliance", "Mergers & Acquisitions", "Intellectual Property", "Employment Contracts", "Commercial Litigation"},
				Courts:          []string{"NCLT", "High Court", "Commercial Courts", "Arbitration Tribunals"},
				Cases:           "250+", SuccessRate: "97%", IsActive: true,
			},
			{
				ID: "consumer", Icon: "Briefcase", Title: "Consumer Law",
				Description:     "Protection of consumer rights against unfair trade practices.",
				FullDescription: "When businesses fail to deliver on promises or engage in unfair practices, we stand with consumers. Our consumer law practice helps clients seek redressal and justice against corporate wrongdoing.",
				Services:        []string{"Consumer Complaints", "Product Liability", "Service Deficiency", "Unfair Trade Practices", "E-commerce Disputes", "Banking Complaints", "Insurance Claims", "Medical Negligence"},
				Courts:          []string{"District Consumer Forum", "State Consumer Commission", "National Consumer Commission", "High Court"},
				Cases:           "200+", SuccessRate: "91%", IsActive: true,
			},
		},
	}
}

func defaultAboutPage() *AboutPageContent {
	return &AboutPageContent{
		Badge:         "OUR LEGACY",
		HeroTitle:     "A Personal Commitment to Upholding the Law",
		HeroSubtitle:  "For over 20 years, Advocate Law Chambers has served as a cornerstone of legal reliability. Led by Adv. Arun Kumar, we blend traditional legal wisdom with modern strategic thinking.",
		AdvocateName:  "Adv. Arun Kumar",
		AdvocateTitle: "Senior Advocate",
		Education:     "LLB, Delhi University",
		Location:      "New Delhi, India",
		Bio: []string{
			"Advocate Arun Kumar is a distinguished legal professional with over two decades of experience in criminal defense, civil litigation, family law, and corporate legal matters. His career is marked by an unwavering commitment to justice and client success.",
			"After completing his law degree from the prestigious Delhi University, he was enrolled with the Bar Council of Delhi in 2003. His early years were spent learning under senior advocates at leading law firms, where he developed a strong foundation in litigation strategy and courtroom advocacy.",
			"In 2012, he established Advocate Law Chambers with a vision to provide accessible, high-quality legal services to individuals and businesses alike. The practice has since grown to handle cases across various courts, including the Supreme Court of India, High Courts, District Courts, and specialized tribunals.",
		},
		Certifications: []string{
			"Bar Council of Delhi - Enrollment No. D/1234/2003",
			"Supreme Court of India - AOR Designation",
			"Certified Mediator - Delhi High Court Mediation Centre",
			"Member - Delhi High Court Bar Association",
			"Member - Supreme Court Bar Association",
		},
		Timeline: []TimelineItem{
			{Year: "2003", Title: "Enrolled with Bar Council of Delhi", Description: "Began legal practice after completing LLB from Delhi University"},
			{Year: "2008", Title: "Senior Associate at Leading Law Firm", Description: "Handled complex criminal and civil litigation cases"},
			{Year: "2012", Title: "Established Independent Practice", Description: "Founded Advocate Law Chambers with focus on client success"},
			{Year: "2018", Title: "Supreme Court Practice", Description: "Designated to practice before the Supreme Court of India"},
			{Year: "2023", Title: "20 Years of Excellence", Description: "Celebrating two decades of successful legal representation"},
		},
		EthicsStatement: "We believe that the practice of law is a sacred responsibility. Every client who walks through our doors receives our complete attention, honest counsel, and vigorous representation. We never compromise on ethics, and we treat every case with the gravity it deserves.",
	}
}

func defaultKnowledge() *KnowledgeContent {
	return &KnowledgeContent{
		Badge:        "LEGAL INSIGHTS",
		HeroTitle:    "Empowering You Through Legal Education",
		HeroSubtitle: "Stay informed with our latest analysis of law changes, practical guides, and comprehensive FAQs designed to clarify your rights.",
		Articles: []ArticleItem{
			{ID: 1, Title: "Understanding Bail: A Complete Guide to Bail Provisions in India",
				Excerpt:  "Learn about different types of bail, anticipatory bail, and the legal procedures involved in securing bail in criminal cases.",
				Content:  "Bail is the release of a person from custody while they await trial or an appeal. In India, bail provisions are primarily governed by the Code of Criminal Procedure. There are three main types of bail: Regular Bail, Interim Bail, and Anticipatory Bail.",
				Category: "Criminal Law", Date: "2024-01-15", ReadTime: "8 min read", Featured: true},
			{ID: 2, Title: "Property Registration Process: Step-by-Step Guide",
				Excerpt:  "A comprehensive guide to property registration in India, including required documents, stamp duty, and common pitfalls to avoid.",
				Content:  "Property registration in India is mandatory under the Registration Act. It involves multiple steps like valuation, payment of stamp duty, and final registration at the Sub-Registrar’s office.",
				Category: "Property Law", Date: "2024-01-10", ReadTime: "6 min read", Featured: true},
			{ID: 3, Title: "Divorce Proceedings Under Hindu Marriage Act",
				Excerpt:  "Understanding grounds for divorce, maintenance, custody, and the legal process for dissolving marriage under Hindu law.",
				Content:  "Divorce under the Hindu Marriage Act can be by mutual consent or on contested grounds. Common grounds include cruelty, desertion, adultery, and conversion.",
				Category: "Family Law", Date: "2024-01-05", ReadTime: "10 min read"},
			{ID: 4, Title: "Consumer Rights: Filing Complaints in Consumer Forum",
				Excerpt:  "Know your rights as a consumer and learn how to file effective complaints against deficient services or defective products.",
				Content:  "The Consumer Protection Act protects consumers from unfair trade practices. Complaints can be filed at District, State, or National levels depending on the value of the claim.",
				Category: "Consumer Law", Date: "2023-12-28", ReadTime: "5 min read"},
			{ID: 5, Title: "Starting a Company: Legal Requirements and Compliance",
				Excerpt:  "Essential legal requirements for company registration, director responsibilities, and ongoing compliance obligations.",
				Content:  "Starting a company in India requires registration with the Ministry of Corporate Affairs. Key steps include obtaining DSC, DIN, and filing for incorporation with MOA and AOA.",
				Category: "Corporate Law", Date: "2023-12-20", ReadTime: "7 min read"},
		},
		FAQs: []FAQItem{
			{Question: "How do I know if I have a valid legal case?", Answer: "Determining the validity of a legal case requires examining the facts against applicable laws. We recommend booking a consultation with your case details for a professional assessment."},
			{Question: "What is the difference between civil and criminal cases?", Answer: "Civil cases involve disputes between individuals or organizations (property, contracts, family matters), while criminal cases involve prosecution by the state for violations of criminal law."},
			{Question: "How long do legal proceedings typically take?", Answer: "The duration varies significantly based on case complexity, court backlog, and type of matter. Simple matters may resolve in months, while complex litigation can take years."},
			{Question: "What documents should I keep ready for legal consultation?", Answer: "Gather all relevant documents including agreements, correspondence, ID proofs, previous legal orders if any, and a chronological summary of events."},
			{Question: "Can I change my lawyer during an ongoing case?", Answer: "Yes, you have the right to change your legal counsel at any stage. However, it's important to ensure proper handover of case files and documents."},
		},
	}
}

func defaultContact() *ContactContent {
	return &ContactContent{
		Badge:        "GET IN TOUCH",
		HeroTitle:    "Professional Counsel is Just a Conversation Away",
		HeroSubtitle: "Whether you require urgent representation or a strategic consultation, our team is ready to provide the clarity and direction you need.",
		Address:      "123 Legal Tower, 4th Floor, Civil Lines, Near District Court, New Delhi - 110001",
		Phone:        "+91 98765 43210",
		OfficePhone:  "+91 11 2345 6789",
		Email:        "contact@advocatelawchambers.example",
		InquiryEmail: "inquiries@advocatelawchambers.example",
		Hours:        "Monday - Friday: 10:00 AM - 7:00 PM\nSaturday: 10:00 AM - 4:00 PM\nSunday: By Appointment Only",
		MapEmbed:     "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3501.534682695469!2d77.22479931508096!3d28.637988982416287!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x390cfd37b741d057%3A0xcdee88e47393c3f1!2sConnaught%20Place%2C%20New%20Delhi%2C%20Delhi!5e0!3m2!1sen!2sin!4v1647856385542!5m2!1sen!2sin",
	}
}

func defaultInquiryPage() *InquiryPageContent {
	return &InquiryPageContent{
		Badge:        "CONSULTATION PORTAL",
		HeroTitle:    "Secure Your Strategic Legal Assessment",
		HeroSubtitle: "Take the first step toward a resolution. Submit your details for a prioritized legal review and receive a comprehensive professional opinion within 24 hours.",
		FormTitle:    "Case Details",
		FormSubtitle: "Provide accurate information for a detailed legal assessment.",
	}
}

// defaultSettings carries no admin credentials; they are set at startup
// from configuration or with lawctl.
func defaultSettings() *SettingsContent {
	return &SettingsContent{
		FirmName:     "Advocate Law Chambers",
		AdvocateName: "Adv. Arun Kumar",
		Email:        "contact@advocatelawchambers.example",
		Phone:        "+91 98765 43210",
		Address:      "123 Legal Tower, Civil Lines, New Delhi - 110001",
		InquiryFee:   DefaultInquiryFee,
		Currency:     DefaultCurrency,
	}
}
