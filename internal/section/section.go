// Package section holds the ambient section context the resolver consults
// when walking provider key prefixes.
package section

import "strings"

// Context carries the pipeline name and the section stack in effect for a
// resolver call. It replaces the process-global ambient state of the
// original implementation with an explicit value threaded through calls
// (DESIGN NOTES, "Ambient section context").
type Context struct {
	PipelineName string
	Sections     []string
}

// Hidden reports whether a section name is elided from lookup keys.
func Hidden(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Visible returns sections with hidden ones removed, preserving order.
func (c Context) Visible() []string {
	out := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		if !Hidden(s) {
			out = append(out, s)
		}
	}
	return out
}

// Merge fills PipelineName and Sections from other wherever this Context
// leaves them unset, mirroring inject_section's default merge style.
func (c Context) Merge(other Context) Context {
	merged := c
	if merged.PipelineName == "" {
		merged.PipelineName = other.PipelineName
	}
	if len(merged.Sections) == 0 {
		merged.Sections = other.Sections
	}
	return merged
}

// Stack supports scoped acquisition: Push returns a release function that
// must run on every exit path from the caller's block, guaranteeing the
// prior context is restored.
type Stack struct {
	frames []Context
}

// NewStack returns a stack seeded with an empty root context.
func NewStack() *Stack {
	return &Stack{frames: []Context{{}}}
}

// Current returns the context in effect at the top of the stack.
func (s *Stack) Current() Context {
	return s.frames[len(s.frames)-1]
}

// Push merges ctx over the current context and returns a release func.
func (s *Stack) Push(ctx Context) (pushed Context, release func()) {
	pushed = ctx.Merge(s.Current())
	s.frames = append(s.frames, pushed)
	return pushed, func() {
		s.frames = s.frames[:len(s.frames)-1]
	}
}
