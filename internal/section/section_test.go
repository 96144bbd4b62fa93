package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHidden(t *testing.T) {
	assert.True(t, Hidden("_internal"))
	assert.False(t, Hidden("public"))
}

func TestContextVisible(t *testing.T) {
	c := Context{Sections: []string{"a", "_b", "c"}}
	assert.Equal(t, []string{"a", "c"}, c.Visible())
}

func TestContextMerge(t *testing.T) {
	child := Context{PipelineName: "", Sections: nil}
	parent := Context{PipelineName: "myapp", Sections: []string{"prod"}}
	merged := child.Merge(parent)
	assert.Equal(t, "myapp", merged.PipelineName)
	assert.Equal(t, []string{"prod"}, merged.Sections)
}

func TestContextMergeChildWins(t *testing.T) {
	child := Context{PipelineName: "child", Sections: []string{"s1"}}
	parent := Context{PipelineName: "parent", Sections: []string{"s2"}}
	merged := child.Merge(parent)
	assert.Equal(t, "child", merged.PipelineName)
	assert.Equal(t, []string{"s1"}, merged.Sections)
}

func TestStackPushRelease(t *testing.T) {
	s := NewStack()
	assert.Equal(t, Context{}, s.Current())

	pushed, release := s.Push(Context{PipelineName: "myapp"})
	assert.Equal(t, "myapp", pushed.PipelineName)
	assert.Equal(t, "myapp", s.Current().PipelineName)

	_, release2 := s.Push(Context{Sections: []string{"nested"}})
	assert.Equal(t, "myapp", s.Current().PipelineName)
	assert.Equal(t, []string{"nested"}, s.Current().Sections)

	release2()
	assert.Empty(t, s.Current().Sections)

	release()
	assert.Equal(t, Context{}, s.Current())
}
