// Package frameworks is a static catalogue of security compliance frameworks
// and the questions customers commonly ask about them.
package frameworks

import "strings"

// Framework describes one compliance framework.
type Framework struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Domains         []string `json:"domains"`
	CommonQuestions []string `json:"common_questions"`
}

var catalogue = []Framework{
	{
		ID:          "SOC2",
		Name:        "SOC 2 Type II",
		Description: "Service Organization Control 2 - Trust Services Criteria",
		Domains:     []string{"Security", "Availability", "Processing Integrity", "Confidentiality", "Privacy"},
		CommonQuestions: []string{
			"Do you encrypt data at rest?",
			"What is your incident response process?",
			"How do you handle access controls?",
			"What are your backup procedures?",
			"Do you have a disaster recovery plan?",
			"How do you monitor system access?",
			"What is your change management process?",
			"How do you handle vendor management?",
			"What is your data retention policy?",
			"How do you ensure data confidentiality?",
		},
	},
	{
		ID:          "ISO27001",
		Name:        "ISO 27001",
		Description: "Information Security Management System",
		Domains: []string{
			"Information Security Policies",
			"Organization of Information Security",
			"Human Resource Security",
			"Asset Management",
			"Access Control",
			"Cryptography",
			"Physical and Environmental Security",
			"Operations Security",
			"Communications Security",
			"System Acquisition, Development and Maintenance",
			"Supplier Relationships",
			"Information Security Incident Management",
			"Information Security Aspects of Business Continuity Management",
			"Compliance",
		},
		CommonQuestions: []string{
			"Do you have an Information Security Management System?",
			"How do you classify and handle information assets?",
			"What is your risk assessment methodology?",
			"How do you manage third-party security risks?",
			"What is your business continuity plan?",
			"How do you handle security incidents?",
			"What is your asset management process?",
			"How do you ensure secure development practices?",
			"What is your data classification scheme?",
			"How do you monitor and audit security controls?",
		},
	},
	{
		ID:          "GDPR",
		Name:        "GDPR Compliance",
		Description: "General Data Protection Regulation",
		Domains: []string{
			"Lawful Basis",
			"Data Subject Rights",
			"Data Protection by Design",
			"Data Breach Notification",
			"Data Protection Officer",
			"Cross-border Data Transfers",
		},
		CommonQuestions: []string{
			"How do you ensure GDPR compliance?",
			"What is your data processing legal basis?",
			"How do you handle data subject requests?",
			"What is your data breach notification process?",
			"How do you ensure data protection by design?",
			"Do you have a Data Protection Officer?",
			"How do you handle cross-border data transfers?",
			"What is your data retention policy?",
			"How do you obtain consent for data processing?",
			"What is your data minimization approach?",
		},
	},
	{
		ID:          "HIPAA",
		Name:        "HIPAA Compliance",
		Description: "Health Insurance Portability and Accountability Act",
		Domains:     []string{"Privacy Rule", "Security Rule", "Breach Notification Rule", "Enforcement Rule"},
		CommonQuestions: []string{
			"How do you ensure HIPAA compliance?",
			"What is your PHI handling process?",
			"How do you implement access controls for PHI?",
			"What is your breach notification process?",
			"How do you ensure data encryption?",
			"What is your audit trail process?",
			"How do you handle business associate agreements?",
			"What is your workforce training program?",
			"How do you ensure physical security?",
			"What is your contingency plan?",
		},
	},
}

// All returns every framework in catalogue order. Callers may modify the result.
func All() []Framework {
	out := make([]Framework, len(catalogue))
	for i, f := range catalogue {
		out[i] = clone(f)
	}
	return out
}

// Get looks up a framework by ID, ignoring case, spaces and dashes ("iso-27001" finds ISO27001).
func Get(id string) (Framework, bool) {
	key := normalizeID(id)
	for _, f := range catalogue {
		if f.ID == key {
			return clone(f), true
		}
	}
	return Framework{}, false
}

// Questions returns the common questions for a framework, or nil if it is unknown.
func Questions(id string) []string {
	f, ok := Get(id)
	if !ok {
		return nil
	}
	return f.CommonQuestions
}

// IDs lists the known framework IDs.
func IDs() []string {
	ids := make([]string, len(catalogue))
	for i, f := range catalogue {
		ids[i] = f.ID
	}
	return ids
}

func normalizeID(id string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '_' {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(id)))
}

func clone(f Framework) Framework {
	f.Domains = append([]string(nil), f.Domains...)
	f.CommonQuestions = append([]string(nil), f.CommonQuestions...)
	return f
}
