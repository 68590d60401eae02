package jsonpath

import "sync"

// matchSlicePool recycles the intermediate match sets built while a path is
// resolved segment by segment. Resolution allocates one slice per segment,
// which adds up when an overlay evaluates many targets against one document.
var matchSlicePool = sync.Pool{
	New: func() any {
		s := make([]*Match, 0, 16)
		return &s
	},
}

func getMatchSlice() *[]*Match {
	s := matchSlicePool.Get().(*[]*Match)
	*s = (*s)[:0]
	return s
}

func putMatchSlice(s *[]*Match) {
	const maxPooledCap = 1024
	if cap(*s) > maxPooledCap {
		return
	}
	// Drop references so pooled slices do not pin document subtrees.
	for i := range *s {
		(*s)[i] = nil
	}
	matchSlicePool.Put(s)
}
