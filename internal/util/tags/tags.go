package tags

import "sort"

// Standard tag keys.
const (
	// KeyName is the display name shown by the cloud console.
	KeyName = "Name"

	// KeyID identifies the provisioning run a resource belongs to.
	KeyID = "ID"

	// KeyManagedBy identifies the tool that created the resource.
	KeyManagedBy = "managed-by"

	ManagedByAppboot = "appboot"
)

// Tag is one key/value pair.
type Tag struct {
	Key   string
	Value string
}

// TagBuilder provides a fluent interface for building resource tags.
type TagBuilder struct {
	tags map[string]string
}

// NewTagBuilder creates a builder with the run ID pre-set.
func NewTagBuilder(runID string) *TagBuilder {
	return &TagBuilder{
		tags: map[string]string{
			KeyID:        runID,
			KeyManagedBy: ManagedByAppboot,
		},
	}
}

// WithName sets the Name tag. An empty name is not set.
func (b *TagBuilder) WithName(name string) *TagBuilder {
	if name != "" {
		b.tags[KeyName] = name
	}
	return b
}

// Merge adds all tags from the provided map.
func (b *TagBuilder) Merge(extra map[string]string) *TagBuilder {
	for k, v := range extra {
		b.tags[k] = v
	}
	return b
}

// Build returns the tags sorted by key.
func (b *TagBuilder) Build() []Tag {
	keys := make([]string, 0, len(b.tags))
	for k := range b.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, Tag{Key: k, Value: b.tags[k]})
	}
	return out
}

// Map returns a copy of the tags.
func (b *TagBuilder) Map() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		out[k] = v
	}
	return out
}
