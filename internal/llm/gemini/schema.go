package gemini

// reportSchema describes the expected JSON shape of the critique report,
// passed to the model as generationConfig.responseSchema to constrain its
// output. Constant per request; never mutated.
func reportSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"atsScore": map[string]any{
				"type":        "NUMBER",
				"description": "ATS compatibility score from 0 to 100.",
			},
			"summary": map[string]any{
				"type": "STRING",
			},
			"atsFeedback": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
			"strengths": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
			"weaknesses": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
			"jobDescriptionMatch": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
		},
		"required": []any{
			"atsScore",
			"summary",
			"atsFeedback",
			"strengths",
			"weaknesses",
			"jobDescriptionMatch",
		},
		"propertyOrdering": []any{
			"atsScore",
			"summary",
			"atsFeedback",
			"strengths",
			"weaknesses",
			"jobDescriptionMatch",
		},
	}
}
