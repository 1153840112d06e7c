// Package book compiles flat achievement lists into the pages of a written book.
package book

import (
	"fmt"
	"strings"

	"github.com/and161185/achbook/internal/errs"
	"github.com/and161185/achbook/internal/markup"
	"github.com/and161185/achbook/internal/model"
)

// FieldsPerRecord is the number of flat list elements forming one achievement.
const FieldsPerRecord = 3

// DatePlaceholder is replaced by the compilation date in the lore template.
const DatePlaceholder = "DATE"

const (
	namePrefix = "&0"   // dark, plain
	datePrefix = "&r"   // default style
	lorePrefix = "&r&o" // default, italic
)

// Compiler builds books. The zero value is not usable; use NewCompiler.
type Compiler struct {
	separator    string
	loreTemplate string
	translate    func(string) string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTranslator overrides the markup translation applied to pages and lore.
func WithTranslator(fn func(string) string) Option {
	return func(c *Compiler) { c.translate = fn }
}

// NewCompiler constructs a compiler with a page separator and a lore template
// containing DatePlaceholder.
func NewCompiler(separator, loreTemplate string, opts ...Option) *Compiler {
	c := &Compiler{separator: separator, loreTemplate: loreTemplate, translate: markup.Colorize}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Records groups a flat name/description/date list into records.
func Records(fields []string) ([]model.AchievementRecord, error) {
	if len(fields)%FieldsPerRecord != 0 {
		return nil, fmt.Errorf("%w: %d fields", errs.ErrMalformedRecordSequence, len(fields))
	}
	out := make([]model.AchievementRecord, 0, len(fields)/FieldsPerRecord)
	for i := 0; i+FieldsPerRecord <= len(fields); i += FieldsPerRecord {
		out = append(out, model.AchievementRecord{Name: fields[i], Description: fields[i+1], Date: fields[i+2]})
	}
	return out, nil
}

// Compile validates the flat list and builds one page per record.
func (c *Compiler) Compile(fields []string, author, title, dateText string) (model.CompiledDocument, error) {
	recs, err := Records(fields)
	if err != nil {
		return model.CompiledDocument{}, err
	}
	return c.CompileRecords(recs, author, title, dateText), nil
}

// CompileRecords builds a book from already grouped records.
func (c *Compiler) CompileRecords(recs []model.AchievementRecord, author, title, dateText string) model.CompiledDocument {
	pages := make([]string, 0, len(recs))
	for _, r := range recs {
		pages = append(pages, c.translate(c.page(r)))
	}
	return model.CompiledDocument{
		Pages:  pages,
		Author: author,
		Title:  title,
		Lore:   c.translate(lorePrefix + strings.ReplaceAll(c.loreTemplate, DatePlaceholder, dateText)),
	}
}

func (c *Compiler) page(r model.AchievementRecord) string {
	var b strings.Builder
	b.Grow(len(r.Name) + len(r.Description) + len(r.Date) + 2*len(c.separator) + 8)
	b.WriteString(namePrefix)
	b.WriteString(r.Name)
	b.WriteByte('\n')
	b.WriteString(c.separator)
	b.WriteByte('\n')
	b.WriteString(r.Description)
	b.WriteByte('\n')
	b.WriteString(c.separator)
	b.WriteByte('\n')
	b.WriteString(datePrefix)
	b.WriteString(r.Date)
	return b.String()
}
