// Package categorize assigns topic categories to article titles using
// ordered keyword rules from the shared taxonomy.
package categorize

import (
	"pulsebot/internal/core"
	"pulsebot/internal/taxonomy"
)

// keywordGroups lists the classification groups in priority order. The first
// group with any substring match wins.
var keywordGroups = []struct {
	category core.Category
	terms    []string
}{
	{core.CategoryDesign, taxonomy.DesignPhrases},
	{core.CategoryAIML, taxonomy.AIMLTerms},
	{core.CategoryEngineering, taxonomy.EngineeringTerms},
	{core.CategoryProduct, taxonomy.ProductTerms},
	{core.CategoryBusiness, taxonomy.BusinessTerms},
	{core.CategoryTechGeneral, taxonomy.TechGeneralTerms},
}

// Categorize maps a raw title to a topic category. It is a pure function of
// the lower-cased title text and consults no external state. Titles matching
// no keyword group fall through to CategoryGeneral; that is expected for
// short or keyword-free titles, not an error.
func Categorize(title string) core.Category {
	for _, group := range keywordGroups {
		if taxonomy.ContainsAny(title, group.terms) {
			return group.category
		}
	}
	return core.CategoryGeneral
}

// Ensure fills in the category for any article that arrives unclassified so
// downstream scoring never sees an empty category.
func Ensure(articles []core.Article) []core.Article {
	for i := range articles {
		if articles[i].Category == "" {
			articles[i].Category = Categorize(articles[i].Title)
		}
	}
	return articles
}
