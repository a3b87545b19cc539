// Package tsv reads the tab-separated taxonomy import table into entities.
//
// A table may start with any number of human-readable super-header rows. The
// machine header is the first row carrying the Læringsressurs column. Every
// data row below it yields at most one entity: a topic at one of three
// levels or a resource under the deepest open topic.
package tsv

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy/resourcetypes"
)

// Parser turns table rows into entities. It is single-pass and not safe for
// concurrent use.
type Parser struct {
	reader    *bufio.Reader
	line      int
	columns   Columns
	types     *resourcetypes.Table
	headerRow int
}

// Option configures a Parser.
type Option func(*Parser)

// WithResourceTypes replaces the built-in resource type table.
func WithResourceTypes(t *resourcetypes.Table) Option {
	return func(p *Parser) {
		if t != nil {
			p.types = t
		}
	}
}

// NewParser reads up to and including the header row and validates it.
// A missing required column is reported before any data row is read.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
		types:  resourcetypes.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// readRecord returns the cells of the next physical line. Cells are split
// on tabs only; quotes carry no meaning in the table.
func (p *Parser) readRecord() ([]string, error) {
	text, err := p.reader.ReadString('\n')
	if err == io.EOF && text == "" {
		return nil, io.EOF
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	p.line++
	text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
	record := strings.Split(text, "\t")
	normalize(record)
	return record, nil
}

func (p *Parser) readHeader() error {
	for {
		record, err := p.readRecord()
		if err == io.EOF {
			return &errors.MissingColumnError{Column: MarkerColumn}
		}
		if err != nil {
			return errors.WrapIO("read", "tsv header", err)
		}
		if !containsMarker(record) {
			continue
		}

		p.headerRow = p.line
		p.columns = newColumns(record)
		for _, name := range RequiredColumns {
			if !p.columns.Has(name) {
				return &errors.MissingColumnError{Column: name}
			}
		}
		return nil
	}
}

func containsMarker(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) == MarkerColumn {
			return true
		}
	}
	return false
}

// normalize rewrites every cell to NFC so that decomposed letters from some
// spreadsheet exports compare equal to the header constants.
func normalize(record []string) {
	for i, cell := range record {
		record[i] = norm.NFC.String(cell)
	}
}

// Columns returns the header map.
func (p *Parser) Columns() Columns {
	return p.columns
}

// HeaderRow returns the 1-based source line of the header.
func (p *Parser) HeaderRow() int {
	return p.headerRow
}

// Next parses the next row against st. It returns (nil, io.EOF) at end of
// input and (nil, nil) for rows that produce no entity.
func (p *Parser) Next(st *State) (*taxonomy.Entity, error) {
	record, err := p.readRecord()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.WrapIO("read", "tsv", err)
	}

	r := row{cols: p.columns, cells: record, number: p.line}
	if r.blank() {
		return nil, nil
	}
	if p.columns.Has(ColumnInclude) && r.cell(ColumnInclude) == "" {
		return nil, nil
	}
	return p.entity(st, r)
}

func (p *Parser) entity(st *State, r row) (*taxonomy.Entity, error) {
	b, err := p.placement(st, r)
	if err != nil {
		return nil, err
	}
	b.Row(r.number)

	if link := r.cell(ColumnLegacyLink); link != "" {
		legacy, err := LegacyNodeID(link)
		if err != nil {
			return nil, errors.WrapRow(r.number, err)
		}
		b.LegacyNodeID(legacy).LegacyURL(link)
	}

	if nn := r.cell(ColumnTranslation); nn != "" {
		b.Translation(constants.TranslationLanguage, nn)
	}

	types, err := p.types.Resolve(r.cell(ColumnResourceType), r.cell(ColumnSubResourceType))
	if err != nil {
		return nil, errors.WrapRow(r.number, err)
	}
	for _, rt := range types {
		b.ResourceType(rt)
	}

	for i := 0; i < p.columns.Count(ColumnFilter); i++ {
		name := r.cellAt(ColumnFilter, i)
		if name == "" {
			continue
		}
		b.Filter(name, r.cellAt(ColumnRelevance, i))
	}

	if r.cell(ColumnSecondary) != "" {
		b.Secondary()
	}

	e := b.Build()
	if id := r.cell(ColumnID); id != "" {
		e.ID = taxonomy.QualifyID(e.Kind, id)
	}
	if uri := r.cell(ColumnContentURI); uri != "" {
		e.ContentURI = uri
	}
	return e, nil
}

// placement decides kind, name, rank and parent, and advances st.
func (p *Parser) placement(st *State, r row) (*taxonomy.Builder, error) {
	for level, column := range topicLevelColumns {
		name := r.cell(column)
		if name == "" {
			continue
		}
		b := taxonomy.NewEntity(taxonomy.KindTopic).Name(name)
		topic := b.Build()
		return b.Rank(st.openTopic(level, topic)).Parent(st.parentFor(topic)), nil
	}

	if name := r.cell(ColumnResourceName); name != "" {
		return taxonomy.NewEntity(taxonomy.KindResource).
			Name(name).
			Rank(st.nextResourceRank()).
			Parent(st.parentFor(nil)), nil
	}

	return nil, errors.NewRowError(r.number, "entity must be named")
}
