package assistant

import (
	"fmt"
	"strings"

	"github.com/fairpay/award-engine/award"
)

func matchPrompt(q JobQuery) string {
	return fmt.Sprintf(`You are an expert in Australian Modern Awards (Fair Work).
Analyze the following job details and identify the most likely Australian Modern Award and Classification.

Job Title: %s
Industry Hint: %s
Description: %s

Consider standard awards like General Retail (MA000004), Hospitality (MA000009), Clerks (MA000002), etc.
Return the top %d matches.`, q.Title, q.Industry, q.Description, MaxMatches)
}

func searchPrompt(query string) string {
	return fmt.Sprintf(`Find the official Fair Work Ombudsman Pay Guide PDF for: %q.
Focus on finding definitive PDF documents from fairwork.gov.au.`, query)
}

const extractInstruction = `Analyze the provided Australian Award document (Pay Guide).
Extract the key rules into a structured format.

Specifically extract:
1. The Award Code and Name.
2. The Penalty Rate multipliers for Saturday, Sunday, Public Holiday, Overtime, and Night Shift (e.g., 150% = 1.5).
3. A list of key Classifications with their hourly Base Rates.
4. A list of common monetary Allowances (e.g., Tool Allowance, Laundry Allowance, Meal Allowance) and their dollar amounts.

If content is a PDF, OCR and parse it.`

func askPrompt(q Question) string {
	var b strings.Builder
	b.WriteString("You are a helpful Australian Payroll Assistant.\n")
	b.WriteString("Answer the user's question about pay rates, awards, or conditions.\n\n")
	if kb := KnowledgeBase(q.KnowledgeBase); kb != "" {
		b.WriteString(kb)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User Question: %s\n", q.Text)
	if q.Context != "" {
		fmt.Fprintf(&b, "Context from current calculation: %s\n", q.Context)
	}
	b.WriteString(`
Instructions:
1. If the user's question relates to one of the KNOWN AWARDS above, cite specific rates, allowances, or penalties from the data provided.
2. If the data is not in the knowledge base, refer to Fair Work general principles but mention you don't have that specific award loaded yet.
3. Keep the answer concise, friendly, and refer to Fair Work Australia principles generally.
4. Do not give binding legal advice.`)
	return b.String()
}

// KnowledgeBase summarises the loaded awards for the model: penalties,
// allowances and the first classification's rate.
func KnowledgeBase(awards []award.Award) string {
	if len(awards) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CURRENT KNOWN AWARDS & RULES:\n")
	for _, a := range awards {
		r := a.EffectiveRates()
		fmt.Fprintf(&b, "Award: %s (%s)\n", a.Name, a.Code)
		fmt.Fprintf(&b, "  - Penalties: Sat x%s, Sun x%s, PH x%s\n", r.Saturday, r.Sunday, r.PublicHoliday)
		if len(a.Allowances) > 0 {
			parts := make([]string, len(a.Allowances))
			for i, al := range a.Allowances {
				parts[i] = fmt.Sprintf("%s ($%s)", al.Name, al.Amount.StringFixed(2))
			}
			fmt.Fprintf(&b, "  - Allowances: %s\n", strings.Join(parts, ", "))
		}
		if c, ok := a.DefaultClassification(); ok {
			fmt.Fprintf(&b, "  - Example Rate: %s = $%s/hr\n", c.Title, c.BaseRate.StringFixed(2))
		}
		b.WriteString("\n")
	}
	return b.String()
}
