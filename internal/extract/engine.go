package extract

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ecotrace/carbon-cli/internal/model"
	"github.com/ecotrace/carbon-cli/internal/normalize"
)

// Engine runs every attribute's rule chain over a parsed document and
// assembles the ProductRecord. The record is complete and immutable when
// Extract returns; downstream stages only read it.
type Engine struct{}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Extract derives all target attributes. A failed normalization drops the
// field to absent; it never aborts the record.
func (e *Engine) Extract(doc *Document) model.ProductRecord {
	rec := model.ProductRecord{
		URL:    doc.URL,
		Fields: make(map[string]model.ExtractedField),
	}

	if f, ok := firstMatch("title", doc, titleRules()); ok {
		rec.Title = f.Normalized
		rec.Fields["title"] = f
	} else {
		rec.Fields["title"] = f
	}

	rec.Fields["weight_kg"] = e.extractWeight(doc, &rec)
	rec.Fields["dimensions_cm"] = e.extractDimensions(doc, &rec)

	if f, ok := firstMatch("material", doc, materialRules()); ok {
		rec.Material = f.Normalized
		rec.Fields["material"] = f
	} else {
		rec.Fields["material"] = f
	}

	if f, ok := firstMatch("origin", doc, originRules()); ok {
		rec.Origin = f.Normalized
		rec.Fields["origin"] = f
	} else {
		rec.Fields["origin"] = f
	}

	if f, ok := firstMatch("brand", doc, brandRules()); ok {
		rec.Brand = f.Normalized
		rec.Fields["brand"] = f
	} else {
		rec.Fields["brand"] = f
	}

	if f, ok := firstMatch("asin", doc, asinRules()); ok {
		rec.ASIN = f.Normalized
		rec.Fields["asin"] = f
	} else {
		rec.Fields["asin"] = f
	}

	return rec
}

func (e *Engine) extractWeight(doc *Document, rec *model.ProductRecord) model.ExtractedField {
	f, ok := firstMatch("weight_kg", doc, weightRules())
	if !ok {
		return f
	}
	kg, valid := normalize.Weight(f.RawValue)
	if !valid {
		zap.L().Debug("extract: weight failed sanity range, dropping",
			zap.String("url", doc.URL),
			zap.String("raw", f.RawValue),
			zap.String("rule", f.SourceRule),
		)
		return model.ExtractedField{Name: "weight_kg", Tier: model.TierNone}
	}
	rec.WeightKG = &kg
	f.Normalized = fmt.Sprintf("%.4f", kg)
	return f
}

func (e *Engine) extractDimensions(doc *Document, rec *model.ProductRecord) model.ExtractedField {
	f, ok := firstMatch("dimensions_cm", doc, dimensionRules())
	if !ok {
		return f
	}
	dims, valid := normalize.Dimensions(f.RawValue)
	if !valid {
		zap.L().Debug("extract: dimensions failed sanity range, dropping",
			zap.String("url", doc.URL),
			zap.String("raw", f.RawValue),
			zap.String("rule", f.SourceRule),
		)
		return model.ExtractedField{Name: "dimensions_cm", Tier: model.TierNone}
	}
	rec.Dimensions = dims
	f.Normalized = dims.String()
	return f
}
