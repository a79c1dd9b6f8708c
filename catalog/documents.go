package catalog

import (
	"sort"
	"strings"
)

// =============================================================================
// DOCUMENT LIBRARY
// =============================================================================

type Source string

const (
	SourceStatic Source = "static"
	SourceSearch Source = "search"
)

// Document is a pay guide reference, either from the static list or a live search.
type Document struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	AwardCode   string `json:"awardCode,omitempty"`
	Description string `json:"description,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Source      Source `json:"source"`
}

func doc(code, title, industry, description string) Document {
	return Document{
		Title:       title,
		AwardCode:   code,
		Description: description,
		Industry:    industry,
		Source:      SourceStatic,
	}
}

var popular = []Document{
	// Retail & Hospitality
	doc("MA000004", "General Retail Industry Award", "Retail", "Definitive pay guide for retail employees, including penalty rates and allowances."),
	doc("MA000009", "Hospitality Industry (General) Award", "Hospitality", "Pay rates for hotels, restaurants, and bars, including casual loading and split shifts."),
	doc("MA000119", "Restaurant Industry Award", "Hospitality", "Specific rates for standalone restaurants, cafes, and roadhouses."),
	doc("MA000003", "Fast Food Industry Award", "Hospitality", "For employees in the fast food industry."),
	doc("MA000058", "Registered and Licensed Clubs Award", "Hospitality", "Covers employees in registered and licensed clubs."),

	// Health & Care
	doc("MA000018", "Aged Care Award", "Health & Care", "Covers aged care employees."),
	doc("MA000100", "Social, Community, Home Care and Disability Services Industry Award", "Health & Care", "SCHADS award for community and disability services."),
	doc("MA000027", "Health Professionals and Support Services Award", "Health & Care", "For health professionals and support staff."),
	doc("MA000034", "Nurses Award", "Health & Care", "Covers nursing professionals."),
	doc("MA000120", "Children's Services Award", "Education", "For childcare workers and early childhood educators."),
	doc("MA000077", "Educational Services (Teachers) Award", "Education", "For teachers in the school education industry."),

	// Trades & Construction
	doc("MA000020", "Building and Construction General On-site Award", "Construction", "Covers general building and construction industry."),
	doc("MA000025", "Electrical, Electronic and Communications Contracting Award", "Trades", "For electrical and communications trades."),
	doc("MA000036", "Plumbing and Fire Sprinklers Award", "Trades", "Covers plumbing and fire sprinkler fitting."),
	doc("MA000010", "Manufacturing and Associated Industries and Occupations Award", "Manufacturing", "Broad coverage for manufacturing industries."),
	doc("MA000089", "Vehicle Repair, Services and Retail Award", "Trades", "For vehicle repair, service, and retail sectors."),

	// Admin & Professional
	doc("MA000002", "Clerks — Private Sector Award", "Admin & Clerical", "Covers administrative and clerical employees in the private sector."),
	doc("MA000065", "Professional Employees Award", "Professional", "Covers information technology, engineering and science professionals."),
	doc("MA000019", "Banking, Finance and Insurance Award", "Finance", "For banking, finance and insurance sectors."),
	doc("MA000106", "Real Estate Industry Award", "Real Estate", "For employees in the real estate industry."),
	doc("MA000116", "Legal Services Award", "Professional", "For law firms and legal services."),

	// Services
	doc("MA000022", "Cleaning Services Award", "Services", "For contract cleaning services."),
	doc("MA000005", "Hair and Beauty Industry Award", "Beauty", "For employees in the hair and beauty industry."),
	doc("MA000016", "Security Services Industry Award", "Services", "For security guards and crowd controllers."),
	doc("MA000042", "Transport (Cash in Transit) Award", "Transport", "For cash in transit transport."),
	doc("MA000038", "Road Transport and Distribution Award", "Transport", "For road transport and distribution."),
	doc("MA000063", "Passenger Vehicle Transportation Award", "Transport", "For bus and coach drivers."),

	// Other
	doc("MA000035", "Pastoral Award", "Agriculture", "Agriculture and farming."),
	doc("MA000028", "Horticulture Award", "Agriculture", "Fruit and vegetable growing."),
	doc("MA000011", "Mining Industry Award", "Mining", "For the mining industry."),
	doc("MA000104", "Miscellaneous Award", "General", "Catch-all award for employees not covered by other awards."),
}

// Documents returns the static library.
func Documents() []Document {
	return append([]Document(nil), popular...)
}

// Industries returns the distinct industries of docs, sorted.
func Industries(docs []Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, doc := range docs {
		if doc.Industry == "" || seen[doc.Industry] {
			continue
		}
		seen[doc.Industry] = true
		out = append(out, doc.Industry)
	}
	sort.Strings(out)
	return out
}

// Filter keeps documents in industry (empty or "All" means any) whose
// title, code or description contains query, case-insensitively.
func Filter(docs []Document, industry, query string) []Document {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if industry != "" && industry != "All" && doc.Industry != industry {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(doc.Title), query) &&
			!strings.Contains(strings.ToLower(doc.AwardCode), query) &&
			!strings.Contains(strings.ToLower(doc.Description), query) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

// DedupeByURL drops documents without a URL and keeps the last document per URL,
// in first-seen order.
func DedupeByURL(docs []Document) []Document {
	index := make(map[string]int)
	var out []Document
	for _, doc := range docs {
		if doc.URL == "" {
			continue
		}
		if i, ok := index[doc.URL]; ok {
			out[i] = doc
			continue
		}
		index[doc.URL] = len(out)
		out = append(out, doc)
	}
	return out
}
