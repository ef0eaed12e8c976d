package graders

import "github.com/microsoft/modelbench/internal/models"

var defaultVocabulary = map[models.Category][]string{
	models.CategoryFactualKnowledge:          {"fact", "history", "located", "known", "discovered", "capital", "population"},
	models.CategoryProblemSolving:            {"solution", "step", "approach", "calculate", "result", "answer", "therefore"},
	models.CategoryCreativeWriting:           {"story", "character", "imagery", "metaphor", "narrative", "poem", "scene"},
	models.CategoryReasoning:                 {"because", "therefore", "thus", "implies", "conclusion", "premise", "logic"},
	models.CategoryTechnicalKnowledge:        {"algorithm", "system", "protocol", "function", "architecture", "memory", "performance"},
	models.CategoryConceptualUnderstanding:   {"concept", "principle", "theory", "relationship", "model", "idea", "framework"},
	models.CategoryProceduralKnowledge:       {"first", "then", "next", "finally", "step", "process", "procedure"},
	models.CategoryDomainSpecificTerminology: {"term", "definition", "refers to", "defined as", "known as", "jargon"},
	models.CategoryAnalyticalThinking:        {"analysis", "compare", "trade-off", "evidence", "factor", "impact", "evaluate"},
	models.CategoryEthicalReasoning:          {"ethical", "moral", "fairness", "harm", "rights", "responsibility", "consent"},
}
