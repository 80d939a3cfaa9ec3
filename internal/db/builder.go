package db

// IndexBuilder is a fluent builder for FT index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an FT index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{
			Name:        name,
			StorageType: StorageHash,
		},
	}
}

// OnJSON sets the index storage type to JSON.
func (b *IndexBuilder) OnJSON() *IndexBuilder {
	b.def.StorageType = StorageJSON
	return b
}

// Prefix adds key prefixes to the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric adds a NUMERIC field to the index.
func (b *IndexBuilder) Numeric(name, alias string) *IndexBuilder {
	return b.add(IndexField{Name: name, Alias: alias, Type: IndexFieldNumeric})
}

// Tag adds a case-sensitive TAG field to the index, split on TagSeparator.
// A whole value like "Korea, Republic of" stays one tag.
func (b *IndexBuilder) Tag(name, alias string) *IndexBuilder {
	return b.add(IndexField{
		Name:             name,
		Alias:            alias,
		Type:             IndexFieldTag,
		TagSeparator:     TagSeparator,
		TagCaseSensitive: true,
	})
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}
