package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/magellan-group/report-triage/internal/apperr"
	"github.com/magellan-group/report-triage/internal/model"
)

// payloadSchemaJSON declares the shape an extraction reply must have
// before any data crosses into the storage layer: all seven sections
// present, field types checked. The model reply is untrusted input.
const payloadSchemaJSON = `{
  "type": "object",
  "required": [
    "report_metadata",
    "project_basics",
    "location",
    "resource_estimate",
    "economics",
    "risk_assessment",
    "investment_analysis"
  ],
  "properties": {
    "report_metadata": {
      "type": "object",
      "properties": {
        "issuer": {"type": ["string", "null"]},
        "effective_date": {"type": ["string", "null"]},
        "report_stage": {
          "type": ["string", "null"],
          "enum": ["Preliminary Assessment", "PEA", "Pre-Feasibility", "PFS", "Feasibility", "FS", "Resource Update", "Technical Report", null]
        }
      }
    },
    "project_basics": {
      "type": "object",
      "properties": {
        "project_name": {"type": ["string", "null"]},
        "primary_commodity": {"type": ["string", "null"]},
        "secondary_commodity": {"type": ["string", "null"]}
      }
    },
    "location": {
      "type": "object",
      "properties": {
        "country": {"type": ["string", "null"]},
        "region": {"type": ["string", "null"]}
      }
    },
    "resource_estimate": {
      "type": "object",
      "properties": {
        "measured_tonnage_mt": {"type": ["number", "null"]},
        "indicated_tonnage_mt": {"type": ["number", "null"]},
        "inferred_tonnage_mt": {"type": ["number", "null"]},
        "measured_grade": {"type": ["string", "null"]},
        "indicated_grade": {"type": ["string", "null"]},
        "inferred_grade": {"type": ["string", "null"]},
        "cutoff_grade": {"type": ["string", "null"]},
        "resource_date": {"type": ["string", "null"]}
      }
    },
    "economics": {
      "type": "object",
      "properties": {
        "has_economic_study": {"type": ["boolean", "null"]},
        "after_tax_npv_musd": {"type": ["number", "null"]},
        "discount_rate_pct": {"type": ["number", "null"]},
        "after_tax_irr_pct": {"type": ["number", "null"]},
        "capex_musd": {"type": ["number", "null"]},
        "opex": {"type": ["string", "null"]},
        "payback_years": {"type": ["number", "null"]},
        "mine_life_years": {"type": ["number", "null"]},
        "price_assumption": {"type": ["string", "null"]}
      }
    },
    "risk_assessment": {
      "type": "object",
      "properties": {
        "metallurgy_risk": {"type": ["string", "null"], "enum": ["low", "moderate", "high", null]},
        "permitting_risk": {"type": ["string", "null"], "enum": ["low", "moderate", "high", null]},
        "infrastructure_risk": {"type": ["string", "null"], "enum": ["low", "moderate", "high", null]},
        "geopolitical_risk": {"type": ["string", "null"], "enum": ["low", "moderate", "high", null]},
        "metallurgy_notes": {"type": ["string", "null"]},
        "permitting_notes": {"type": ["string", "null"]}
      }
    },
    "investment_analysis": {
      "type": "object",
      "properties": {
        "priority": {"type": ["string", "null"], "enum": ["high", "medium", "low", "pass", null]},
        "rationale": {"type": ["string", "null"]},
        "next_catalyst": {"type": ["string", "null"]},
        "catalyst_timeline": {"type": ["string", "null"]},
        "red_flags": {"type": ["array", "null"], "items": {"type": "string"}},
        "positive_signals": {"type": ["array", "null"], "items": {"type": "string"}},
        "magellan_score": {"type": ["number", "null"], "minimum": 1, "maximum": 10}
      }
    }
  }
}`

// payloadSchema is compiled once at init; the schema is a constant.
var payloadSchema = jsonschema.MustCompileString("payload.json", payloadSchemaJSON)

// ParsePayload turns a raw model reply into a validated payload. The reply
// may wrap the JSON object in markdown fences or prose. A reply with no
// parseable JSON object is an internal failure (malformed external reply);
// a parseable object missing a required section or carrying wrong types is
// a validation failure. Validation runs before transformation and
// short-circuits it.
func ParsePayload(text string) (*model.ExtractionPayload, error) {
	cleaned := cleanJSON(text)

	var raw any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, apperr.Wrap(eris.Wrap(err, "extract: parse reply"),
			apperr.KindInternal, "malformed extraction reply")
	}

	if err := payloadSchema.Validate(raw); err != nil {
		return nil, apperr.Wrap(eris.Wrap(err, "extract: validate payload"),
			apperr.KindValidation, "extraction payload failed schema validation")
	}

	var payload model.ExtractionPayload
	if err := json.NewDecoder(bytes.NewReader([]byte(cleaned))).Decode(&payload); err != nil {
		return nil, apperr.Wrap(eris.Wrap(err, "extract: decode payload"),
			apperr.KindInternal, "malformed extraction reply")
	}
	return &payload, nil
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
