// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides incremental path construction for document
// traversal, plus output-path sanitization for the CLI.
//
// PathBuilder uses push/pop semantics so recursive walks can build paths
// without allocating intermediate strings; the full string is only
// materialized by String(). Builders are pooled via Get/Put.
package pathutil

import (
	"strconv"
	"strings"
	"sync"
)

// PathBuilder accumulates path segments during traversal.
// Segments pushed with Push join with a dot; PushIndex segments
// ("[3]") attach directly to the preceding segment.
type PathBuilder struct {
	segments []string
}

// Push adds a named segment to the path.
func (p *PathBuilder) Push(segment string) {
	p.segments = append(p.segments, segment)
}

// PushIndex adds an array index segment: "[0]", "[1]", etc.
func (p *PathBuilder) PushIndex(i int) {
	p.segments = append(p.segments, "["+strconv.Itoa(i)+"]")
}

// Pop removes the last segment.
func (p *PathBuilder) Pop() {
	if len(p.segments) > 0 {
		p.segments = p.segments[:len(p.segments)-1]
	}
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
}

// String materializes the full path. Only call when the path is needed.
func (p *PathBuilder) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	size := 0
	for _, seg := range p.segments {
		size += len(seg) + 1
	}
	var b strings.Builder
	b.Grow(size)
	b.WriteString(p.segments[0])
	for _, seg := range p.segments[1:] {
		if len(seg) > 0 && seg[0] == '[' {
			b.WriteString(seg)
		} else {
			b.WriteByte('.')
			b.WriteString(seg)
		}
	}
	return b.String()
}

const (
	defaultPathCap = 8  // most document paths are <8 segments deep
	maxPathCap     = 64 // don't pool excessively deep builders
)

var builderPool = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]string, 0, defaultPathCap)}
	},
}

// Get retrieves a PathBuilder from the pool, reset and ready to use.
func Get() *PathBuilder {
	p := builderPool.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put returns a PathBuilder to the pool if not oversized.
func Put(p *PathBuilder) {
	if p == nil || cap(p.segments) > maxPathCap {
		return
	}
	builderPool.Put(p)
}
