package search

import (
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// DocumentID is the index key for a golden game record. Callers use it to
// address a game's document without building a full Document.
func DocumentID(gameID int64) string {
	return strconv.FormatInt(gameID, 10)
}

// buildIndexMapping creates the Bleve index mapping for game documents.
//
// Titles and summaries get English stemming for natural queries; genres,
// themes and platforms use the keyword analyzer so filters and facets
// match the stored tag exactly ("Role-playing (RPG)" stays one term).
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title is the primary search target.
	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = en.AnalyzerName
	nameField.Store = true
	nameField.IncludeTermVectors = true // for highlighting
	docMapping.AddFieldMappingsAt("name", nameField)

	// Summary is searchable but not stored, it is too large to echo back.
	summaryField := bleve.NewTextFieldMapping()
	summaryField.Analyzer = en.AnalyzerName
	summaryField.Store = false
	docMapping.AddFieldMappingsAt("summary", summaryField)

	// Developers use the simple analyzer: studio names should match
	// without stemming ("FromSoftware" is not an English word).
	developersField := bleve.NewTextFieldMapping()
	developersField.Analyzer = simple.Name
	developersField.Store = true
	developersField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("developers", developersField)

	// Exact-match tag fields, facetable.
	for _, field := range []string{"genres", "themes", "platforms"} {
		tagField := bleve.NewTextFieldMapping()
		tagField.Analyzer = keyword.Name
		tagField.Store = true
		tagField.IncludeTermVectors = true
		docMapping.AddFieldMappingsAt(field, tagField)
	}

	// Keywords are searchable as exact tags but never faceted.
	keywordsField := bleve.NewTextFieldMapping()
	keywordsField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("keywords", keywordsField)

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idField)

	coverField := bleve.NewTextFieldMapping()
	coverField.Analyzer = keyword.Name
	coverField.Store = true
	coverField.Index = false
	docMapping.AddFieldMappingsAt("cover_url", coverField)

	// Numeric fields for range filtering and sorting.
	for _, field := range []string{"igdb_id", "playtime_minutes", "rating", "global_rating"} {
		numField := bleve.NewNumericFieldMapping()
		numField.Store = true
		docMapping.AddFieldMappingsAt(field, numField)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
