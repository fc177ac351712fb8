package insights

import (
	"github.com/dvloznov/financeflow/internal/domain"
	"google.golang.org/genai"
)

// responseSchema declares the only shape the model may answer with: an array
// of objects, each carrying all three insight fields.
func responseSchema() *genai.Schema {
	priorities := make([]string, 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		priorities = append(priorities, string(p))
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {
					Type:        genai.TypeString,
					Description: "Um título curto e chamativo para o insight",
				},
				"description": {
					Type:        genai.TypeString,
					Description: "Uma explicação detalhada e útil",
				},
				"priority": {
					Type:        genai.TypeString,
					Enum:        priorities,
					Description: "Nível de urgência/impacto",
				},
			},
			Required:         []string{"title", "description", "priority"},
			PropertyOrdering: []string{"title", "description", "priority"},
		},
	}
}

// generateConfig asks for JSON constrained by responseSchema.
func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
}
