package extract

// systemText is cached across extraction calls; the instruction prompt is
// identical for every document.
const systemText = `You are a mining investment analyst extracting structured data from NI 43-101 technical reports. Return only a valid JSON object matching the requested schema. Use null for any value the report does not state. Never invent numbers.`

// instructionPrompt requests a JSON object with exactly the seven
// top-level sections the transformer validates against.
const instructionPrompt = `Extract structured data from this NI 43-101 technical mining report.

Return a single JSON object with exactly these seven top-level sections:

"report_metadata": {
  "issuer": <issuing company name or null>,
  "effective_date": <report effective date, YYYY-MM-DD, or null>,
  "report_stage": <one of "Preliminary Assessment", "PEA", "Pre-Feasibility", "PFS", "Feasibility", "FS", "Resource Update", "Technical Report", or null>
}

"project_basics": {
  "project_name": <project name or null>,
  "primary_commodity": <main commodity, e.g. "gold", or null>,
  "secondary_commodity": <secondary commodity or null>
}

"location": {
  "country": <country or null>,
  "region": <province/state/region or null>
}

"resource_estimate": {
  "measured_tonnage_mt": <measured resource in million tonnes, number or null>,
  "indicated_tonnage_mt": <indicated resource in million tonnes, number or null>,
  "inferred_tonnage_mt": <inferred resource in million tonnes, number or null>,
  "measured_grade": <grade string, e.g. "1.2 g/t Au", or null>,
  "indicated_grade": <grade string or null>,
  "inferred_grade": <grade string or null>,
  "cutoff_grade": <cutoff grade string or null>,
  "resource_date": <effective date of the resource estimate or null>
}

"economics": {
  "has_economic_study": <true if the report contains an economic study, else false>,
  "after_tax_npv_musd": <after-tax NPV in million USD, number or null>,
  "discount_rate_pct": <discount rate percent, number or null>,
  "after_tax_irr_pct": <after-tax IRR percent, number or null>,
  "capex_musd": <initial capital expenditure in million USD, number or null>,
  "opex": <operating cost string or null>,
  "payback_years": <payback period in years, number or null>,
  "mine_life_years": <mine life in years, number or null>,
  "price_assumption": <commodity price assumption string or null>
}

"risk_assessment": {
  "metallurgy_risk": <"low", "moderate" or "high">,
  "permitting_risk": <"low", "moderate" or "high">,
  "infrastructure_risk": <"low", "moderate" or "high">,
  "geopolitical_risk": <"low", "moderate" or "high">,
  "metallurgy_notes": <brief note on metallurgical risk or null>,
  "permitting_notes": <brief note on permitting risk or null>
}

"investment_analysis": {
  "priority": <"high", "medium", "low" or "pass">,
  "rationale": <2-3 sentence investment rationale>,
  "next_catalyst": <the next material catalyst or null>,
  "catalyst_timeline": <expected catalyst timing or null>,
  "red_flags": <array of red flag strings>,
  "positive_signals": <array of positive signal strings>,
  "magellan_score": <overall attractiveness score, 1-10>
}

All seven sections must be present. Do not add sections or prose outside the JSON object.`

// textPromptHeader prefixes the fallback prompt when the document is sent
// as extracted plain text instead of a native PDF.
const textPromptHeader = `The report could not be submitted as a PDF, so its extracted plain text follows after the instructions.

`
