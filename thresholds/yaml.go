package thresholds

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/featab/errs"
)

// Document is the on-disk form of a threshold set, optionally carrying the traversal
// order the encoder should use.
//
//	features:
//	  - id: 0
//	    thresholds: [1.0, 5.0, 10.0]
//	  - id: 1
//	    thresholds: [0.25, 0.5]
//	order: [1, 0]
type Document struct {
	Features []Entry `yaml:"features"`
	Order    []int   `yaml:"order,omitempty"`
}

// Entry is one feature's thresholds in a Document.
type Entry struct {
	ID         int       `yaml:"id"`
	Thresholds []float64 `yaml:"thresholds,flow"`
}

// NewDocument builds a document from a set, listing features in ascending id order.
func NewDocument(set Set, order []int) *Document {
	doc := &Document{Order: order}
	for _, id := range set.Features() {
		doc.Features = append(doc.Features, Entry{ID: id, Thresholds: set[id]})
	}

	return doc
}

// Set converts the document to a validated Set. Duplicate ids are rejected.
func (d *Document) Set() (Set, error) {
	set := make(Set, len(d.Features))
	for _, e := range d.Features {
		if _, ok := set[e.ID]; ok {
			return nil, errs.NewFeatureError(e.ID, fmt.Errorf("%w: duplicate feature id", errs.ErrInvalidThresholds))
		}
		set[e.ID] = e.Thresholds
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Decode reads a YAML document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode thresholds: %w", err)
	}

	return &doc, nil
}

// Encode writes the document as YAML.
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode thresholds: %w", err)
	}

	return enc.Close()
}
