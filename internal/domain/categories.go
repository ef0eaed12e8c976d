package domain

import (
	"regexp"
	"strings"

	"github.com/microsoft/modelbench/internal/models"
)

// Rule assigns Category to prompts matching Pattern.
type Rule struct {
	Category models.Category
	Pattern  *regexp.Regexp
}

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{models.CategoryEthicalReasoning, regexp.MustCompile(`\b(ethic\w*|moral\w*|dilemma|fair(ness)?|right or wrong|justif\w*)\b`)},
	{models.CategoryCreativeWriting, regexp.MustCompile(`\b(story|poem|poetry|haiku|fiction|creative\w*|imagine|write a)\b`)},
	{models.CategoryProblemSolving, regexp.MustCompile(`\d\s*[-+*/x×÷^]\s*\d|\b(solve|calculate|compute|how many|how much)\b`)},
	{models.CategoryAnalyticalThinking, regexp.MustCompile(`\b(analy[sz]\w*|compare|contrast|evaluate|assess|pros and cons|trade-?offs?)\b`)},
	{models.CategoryReasoning, regexp.MustCompile(`\b(why|if|therefore|logic\w*|deduce|infer|conclude|puzzle)\b`)},
	{models.CategoryTechnicalKnowledge, regexp.MustCompile(`\b(code|coding|algorithm\w*|program\w*|software|api|database|protocol|kubernetes|compiler)\b`)},
	{models.CategoryProceduralKnowledge, regexp.MustCompile(`\b(how (to|do i|do you)|steps?|procedure|process for|instructions)\b`)},
	{models.CategoryDomainSpecificTerminology, regexp.MustCompile(`\b(define|definition|terms?|stand for|acronym|meaning of|what does)\b`)},
	{models.CategoryConceptualUnderstanding, regexp.MustCompile(`\b(explain|concept\w*|describe|understand\w*|difference between|principle)\b`)},
	{models.CategoryFactualKnowledge, regexp.MustCompile(`\b(what is|who|when|where|which|capital|name the)\b`)},
}

// MatchCategory returns the category of the first rule matching prompt.
func MatchCategory(prompt string) (models.Category, bool) {
	p := strings.ToLower(prompt)
	for _, r := range Rules {
		if r.Pattern.MatchString(p) {
			return r.Category, true
		}
	}
	return "", false
}

// ResolveCategories gives every test case a category: the recorded one if
// valid, else the first matching rule, else the next taxonomy entry in
// round-robin order over the cases nothing matched.
func ResolveCategories(testCases []models.TestCase) map[string]models.Category {
	taxonomy := models.Categories()
	out := make(map[string]models.Category, len(testCases))
	unmatched := 0
	for _, tc := range testCases {
		if tc.Category.Valid() {
			out[tc.ID] = tc.Category
			continue
		}
		if c, ok := MatchCategory(tc.Prompt); ok {
			out[tc.ID] = c
			continue
		}
		out[tc.ID] = taxonomy[unmatched%len(taxonomy)]
		unmatched++
	}
	return out
}
