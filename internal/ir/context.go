package ir

import (
	"fmt"
	"sort"
)

// Context is a compilation set: one schema and every document compiled
// against it, addressed by name.
type Context struct {
	Schema    *Schema
	documents map[string]Document
}

// NewContext creates an empty compilation set over schema.
func NewContext(schema *Schema) *Context {
	return &Context{
		Schema:    schema,
		documents: make(map[string]Document),
	}
}

// Add inserts a document. Operation and fragment names share one namespace.
func (c *Context) Add(doc Document) error {
	name := doc.DocumentName()
	if name == "" {
		return fmt.Errorf("document has no name")
	}
	if _, exists := c.documents[name]; exists {
		return fmt.Errorf("duplicate document name %q", name)
	}
	c.documents[name] = doc
	return nil
}

// Get returns the document with the given name.
func (c *Context) Get(name string) (Document, bool) {
	doc, ok := c.documents[name]
	return doc, ok
}

// Fragment returns the fragment with the given name.
func (c *Context) Fragment(name string) (*Fragment, bool) {
	frag, ok := c.documents[name].(*Fragment)
	return frag, ok
}

// Documents returns all documents sorted by name.
func (c *Context) Documents() []Document {
	names := make([]string, 0, len(c.documents))
	for name := range c.documents {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]Document, len(names))
	for i, name := range names {
		docs[i] = c.documents[name]
	}
	return docs
}

// Len returns the number of documents.
func (c *Context) Len() int {
	return len(c.documents)
}
