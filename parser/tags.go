package parser

import "github.com/lialzmChina/beancount/ast"

// TagContext is the ordered multiset of tags pushed by pushtag directives.
// It is private to one parse: pushtag/poptag reductions mutate it, and each
// transaction reduction reads a snapshot to merge into its tag set.
type TagContext struct {
	tags []ast.Tag
}

// Push appends a tag to the context. The same tag may be pushed more than
// once; pops remove one occurrence at a time.
func (c *TagContext) Push(tag ast.Tag) {
	c.tags = append(c.tags, tag)
}

// Pop removes the most recent occurrence of tag. It reports whether the tag
// was present.
func (c *TagContext) Pop(tag ast.Tag) bool {
	for i := len(c.tags) - 1; i >= 0; i-- {
		if c.tags[i] == tag {
			c.tags = append(c.tags[:i], c.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the currently pushed tags in push order. The returned
// slice is shared; callers merge, they do not mutate.
func (c *TagContext) Active() []ast.Tag {
	return c.tags
}

// Len returns the number of pushed tags, counting duplicates.
func (c *TagContext) Len() int {
	return len(c.tags)
}
