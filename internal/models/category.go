package models

import "slices"

// Category is one entry of the fixed test case taxonomy.
type Category string

const (
	CategoryFactualKnowledge          Category = "factual-knowledge"
	CategoryProblemSolving            Category = "problem-solving"
	CategoryCreativeWriting           Category = "creative-writing"
	CategoryReasoning                 Category = "reasoning"
	CategoryTechnicalKnowledge        Category = "technical-knowledge"
	CategoryConceptualUnderstanding   Category = "conceptual-understanding"
	CategoryProceduralKnowledge       Category = "procedural-knowledge"
	CategoryDomainSpecificTerminology Category = "domain-specific-terminology"
	CategoryAnalyticalThinking        Category = "analytical-thinking"
	CategoryEthicalReasoning          Category = "ethical-reasoning"
)

var taxonomy = []Category{
	CategoryFactualKnowledge,
	CategoryProblemSolving,
	CategoryCreativeWriting,
	CategoryReasoning,
	CategoryTechnicalKnowledge,
	CategoryConceptualUnderstanding,
	CategoryProceduralKnowledge,
	CategoryDomainSpecificTerminology,
	CategoryAnalyticalThinking,
	CategoryEthicalReasoning,
}

// Categories returns the taxonomy in its canonical order.
func Categories() []Category {
	return slices.Clone(taxonomy)
}

// Valid reports whether c is part of the taxonomy.
func (c Category) Valid() bool {
	return slices.Contains(taxonomy, c)
}

// Index returns the canonical position of c, or -1 when c is not in the taxonomy.
func (c Category) Index() int {
	return slices.Index(taxonomy, c)
}

func (c Category) String() string {
	return string(c)
}
