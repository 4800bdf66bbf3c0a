package textsearch

import (
	"fmt"

	"search-indexer/core/reconcile"
	"search-indexer/core/utils"
	"search-indexer/feature/textsearch/models"
)

// Base types tracked by the index.
const (
	BaseWebpage       reconcile.BaseType = "Webpage"
	BaseMediaFile     reconcile.BaseType = "MediaFile"
	BaseMediaCategory reconcile.BaseType = "MediaCategory"
	BaseForm          reconcile.BaseType = "Form"
)

// Concrete webpage document types.
const (
	TypeArticle  = "Article"
	TypeTextPage = "TextPage"
)

const maxDisplayName = 255

// NewRegistry returns the registry of every indexed entity type.
func NewRegistry() (*reconcile.Registry, error) {
	return reconcile.NewRegistry(
		ArticleConverter{},
		TextPageConverter{},
		MediaFileConverter{},
		MediaCategoryConverter{},
		FormConverter{},
	)
}

func unexpected(c reconcile.Converter, r reconcile.Record) error {
	return fmt.Errorf("%s converter cannot convert %T", c.EntityType(), r)
}

func asWebpage(c reconcile.Converter, r reconcile.Record) (*models.Webpage, error) {
	w, ok := r.(*models.Webpage)
	if !ok || w.DocumentType != c.EntityType() {
		return nil, unexpected(c, r)
	}
	return w, nil
}

// ArticleConverter indexes articles.
type ArticleConverter struct{}

func (ArticleConverter) EntityType() string           { return TypeArticle }
func (ArticleConverter) BaseType() reconcile.BaseType { return BaseWebpage }
func (c ArticleConverter) Convert(r reconcile.Record) (reconcile.Document, error) {
	w, err := asWebpage(c, r)
	if err != nil {
		return reconcile.Document{}, err
	}
	return reconcile.Document{
		DisplayName:   utils.Truncate(w.Name, maxDisplayName),
		PrimaryText:   utils.JoinNonEmpty(" ", w.Name, utils.StripHTML(w.Abstract), utils.StripHTML(w.BodyContent)),
		SecondaryText: utils.JoinNonEmpty(" ", w.UrlSegment, w.MetaKeywords),
	}, nil
}

// TextPageConverter indexes plain text pages.
type TextPageConverter struct{}

func (TextPageConverter) EntityType() string           { return TypeTextPage }
func (TextPageConverter) BaseType() reconcile.BaseType { return BaseWebpage }
func (c TextPageConverter) Convert(r reconcile.Record) (reconcile.Document, error) {
	w, err := asWebpage(c, r)
	if err != nil {
		return reconcile.Document{}, err
	}
	return reconcile.Document{
		DisplayName:   utils.Truncate(w.Name, maxDisplayName),
		PrimaryText:   utils.JoinNonEmpty(" ", w.Name, utils.StripHTML(w.BodyContent)),
		SecondaryText: utils.CollapseSpaces(w.UrlSegment),
	}, nil
}

// MediaFileConverter indexes media files. The file must be resolved with its category.
type MediaFileConverter struct{}

func (MediaFileConverter) EntityType() string           { return "MediaFile" }
func (MediaFileConverter) BaseType() reconcile.BaseType { return BaseMediaFile }
func (c MediaFileConverter) Convert(r reconcile.Record) (reconcile.Document, error) {
	f, ok := r.(*models.MediaFile)
	if !ok {
		return reconcile.Document{}, unexpected(c, r)
	}
	var category string
	if f.Category != nil {
		category = f.Category.Name
	}
	return reconcile.Document{
		DisplayName:   utils.Truncate(f.FileName, maxDisplayName),
		PrimaryText:   utils.JoinNonEmpty(" ", f.Title, utils.StripHTML(f.Description)),
		SecondaryText: utils.JoinNonEmpty(" ", f.FileExtension, category),
	}, nil
}

// MediaCategoryConverter indexes media categories.
type MediaCategoryConverter struct{}

func (MediaCategoryConverter) EntityType() string           { return "MediaCategory" }
func (MediaCategoryConverter) BaseType() reconcile.BaseType { return BaseMediaCategory }
func (c MediaCategoryConverter) Convert(r reconcile.Record) (reconcile.Document, error) {
	m, ok := r.(*models.MediaCategory)
	if !ok {
		return reconcile.Document{}, unexpected(c, r)
	}
	return reconcile.Document{
		DisplayName:   utils.Truncate(m.Name, maxDisplayName),
		PrimaryText:   utils.JoinNonEmpty(" ", m.Name, utils.StripHTML(m.Description)),
		SecondaryText: utils.CollapseSpaces(m.UrlSegment),
	}, nil
}

// FormConverter indexes forms.
type FormConverter struct{}

func (FormConverter) EntityType() string           { return "Form" }
func (FormConverter) BaseType() reconcile.BaseType { return BaseForm }
func (c FormConverter) Convert(r reconcile.Record) (reconcile.Document, error) {
	f, ok := r.(*models.Form)
	if !ok {
		return reconcile.Document{}, unexpected(c, r)
	}
	return reconcile.Document{
		DisplayName: utils.Truncate(f.Name, maxDisplayName),
		PrimaryText: utils.JoinNonEmpty(" ", f.Name, f.SubmitButtonText, utils.StripHTML(f.FormMessage)),
	}, nil
}
