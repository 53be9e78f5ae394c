package star

import (
	"fmt"
	"io"
	"strings"
)

// parser walks the items from the lexer.
type parser struct {
	items []item
	pos   int
	doc   *Document
	cur   *Saveframe // save frame we are filling, nil at top level
}

// Read parses everything from r.
func Read(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b))
}

// Parse parses a string holding a STAR file.
func Parse(input string) (*Document, error) {
	items, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{items: items, doc: &Document{Shape: ShapeLoop, Entry: &Entry{}}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) next() item {
	it := p.items[p.pos]
	if it.typ != itemEOF {
		p.pos++
	}
	return it
}

func (p *parser) peek() item { return p.items[p.pos] }

func (p *parser) errf(it item, format string, v ...interface{}) error {
	return ParseError{Line: it.line, Near: it.val, Desc: fmt.Sprintf(format, v...)}
}

// parse is the top level. It decides on the shape from the first
// significant item.
func (p *parser) parse() error {
	seenData, seenSave := false, false
	var loose *Saveframe // holder for top level loops
	for {
		it := p.next()
		switch it.typ {
		case itemEOF:
			switch {
			case seenData:
				p.doc.Shape = ShapeEntry
			case seenSave:
				p.doc.Shape = ShapeSaveframe
			case loose == nil:
				return p.errf(it, "no data block, save frame or loop found")
			}
			return nil
		case itemDataBlock:
			if seenData {
				return p.errf(it, "only one data block per file is supported")
			}
			if seenSave || loose != nil {
				return p.errf(it, "data block header after save frames or loops")
			}
			seenData = true
			p.doc.Entry.ID = it.val
		case itemSaveStart:
			seenSave = true
			if err := p.parseSaveframe(it); err != nil {
				return err
			}
		case itemLoop:
			if seenSave || seenData {
				return p.errf(it, "loop_ outside of a save frame")
			}
			if loose == nil {
				loose = &Saveframe{}
				p.doc.Entry.Frames = append(p.doc.Entry.Frames, loose)
			}
			lp, err := p.parseLoop(it)
			if err != nil {
				return err
			}
			if err := loose.AddLoop(lp); err != nil {
				return p.errf(it, "%v", err)
			}
		default:
			return p.errf(it, "expected data_, save_ or loop_, but got %s", it.typ)
		}
	}
}

// parseSaveframe reads from after save_NAME up to and including save_.
func (p *parser) parseSaveframe(start item) error {
	sf := &Saveframe{Name: start.val}
	if sf.Name == "" {
		return p.errf(start, "save frame without a name")
	}
	for {
		it := p.next()
		switch it.typ {
		case itemSaveEnd:
			if err := p.doc.Entry.AddSaveframe(sf); err != nil {
				return p.errf(start, "%v", err)
			}
			return nil
		case itemTag:
			cat, tag := SplitTag(it.val)
			if cat == "" {
				return p.errf(it, "tag %s has no category", it.val)
			}
			if sf.TagPrefix == "" {
				sf.TagPrefix = cat
			} else if !strings.EqualFold(sf.TagPrefix, cat) {
				return p.errf(it, "tag %s does not share the prefix %s", it.val, sf.TagPrefix)
			}
			v := p.next()
			if v.typ != itemValue {
				return p.errf(it, "tag %s has no value", it.val)
			}
			if err := sf.AddTag(tag, v.val); err != nil {
				return p.errf(it, "%v", err)
			}
		case itemLoop:
			lp, err := p.parseLoop(it)
			if err != nil {
				return err
			}
			if err := sf.AddLoop(lp); err != nil {
				return p.errf(it, "%v", err)
			}
		case itemEOF:
			return p.errf(start, "save frame %s is not closed", sf.Name)
		default:
			return p.errf(it, "unexpected %s in save frame %s", it.typ, sf.Name)
		}
	}
}

// parseLoop reads tags and then values. The number of values must be a
// multiple of the number of tags.
func (p *parser) parseLoop(start item) (*Loop, error) {
	lp := &Loop{}
	for p.peek().typ == itemTag {
		it := p.next()
		cat, tag := SplitTag(it.val)
		if cat == "" {
			return nil, p.errf(it, "loop tag %s has no category", it.val)
		}
		if lp.Category == "" {
			lp.Category = cat
		} else if !strings.EqualFold(lp.Category, cat) {
			return nil, p.errf(it, "loop tag %s does not belong to %s", it.val, lp.Category)
		}
		if lp.TagIndex(tag) >= 0 {
			return nil, p.errf(it, "duplicate tag %s in loop", it.val)
		}
		lp.Tags = append(lp.Tags, tag)
	}
	if len(lp.Tags) == 0 {
		return nil, p.errf(start, "loop_ without tags")
	}
	ncol := len(lp.Tags)
	var row []string
	for p.peek().typ == itemValue {
		row = append(row, p.next().val)
		if len(row) == ncol {
			lp.Data = append(lp.Data, row)
			row = nil
		}
	}
	if len(row) != 0 {
		return nil, p.errf(start, "loop %s: %d values left over, not a multiple of %d tags",
			lp.Category, len(row), ncol)
	}
	if p.peek().typ == itemStop {
		p.next()
	}
	return lp, nil
}
