package gemini

import (
	"google.golang.org/genai"

	"github.com/spigell/gitrecruiter/internal/evaluation"
)

func scoreSchema() *genai.Schema {
	return &genai.Schema{
		Type:    genai.TypeInteger,
		Minimum: genai.Ptr[float64](0),
		Maximum: genai.Ptr[float64](100),
	}
}

func metricNames() []string {
	names := make([]string, 0, len(evaluation.AllMetrics))
	for _, m := range evaluation.AllMetrics {
		names = append(names, string(m))
	}
	return names
}

func gradeNames() []string {
	names := make([]string, 0, len(evaluation.Grades))
	for _, g := range evaluation.Grades {
		names = append(names, string(g))
	}
	return names
}

// responseSchema declares the evaluation object shape to the model. It mirrors
// the JSON Schema that evaluation.Parse enforces on the way back.
func responseSchema() *genai.Schema {
	metrics := metricNames()

	metricProps := make(map[string]*genai.Schema, len(metrics))
	for _, name := range metrics {
		metricProps[name] = scoreSchema()
	}

	impact := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {Type: genai.TypeString, Enum: metrics},
			"gain":     {Type: genai.TypeInteger},
		},
		Required: []string{"category", "gain"},
	}

	recommendation := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {Type: genai.TypeString},
			"title":    {Type: genai.TypeString},
			"action":   {Type: genai.TypeString},
			"priority": {
				Type: genai.TypeString,
				Enum: []string{
					string(evaluation.PriorityHigh),
					string(evaluation.PriorityMedium),
					string(evaluation.PriorityLow),
				},
			},
			"overallGain":     {Type: genai.TypeInteger},
			"categoryImpacts": {Type: genai.TypeArray, Items: impact},
		},
		Required:         []string{"category", "title", "action", "priority", "overallGain", "categoryImpacts"},
		PropertyOrdering: []string{"category", "title", "action", "priority", "overallGain", "categoryImpacts"},
	}

	top := []string{"grade", "overallScore", "metrics", "summary", "strengths", "weaknesses", "recommendations"}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"grade":        {Type: genai.TypeString, Enum: gradeNames()},
			"overallScore": scoreSchema(),
			"metrics": {
				Type:             genai.TypeObject,
				Properties:       metricProps,
				Required:         metrics,
				PropertyOrdering: metrics,
			},
			"summary":         {Type: genai.TypeString},
			"strengths":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"weaknesses":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"recommendations": {Type: genai.TypeArray, Items: recommendation},
		},
		Required:         top,
		PropertyOrdering: top,
	}
}
