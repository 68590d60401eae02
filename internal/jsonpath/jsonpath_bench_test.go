package jsonpath

import (
	"fmt"
	"testing"
)

func BenchmarkParse(b *testing.B) {
	exprs := []string{
		"$.info.title",
		"$.paths['/orders'].get",
		"$.paths.*.*[?(!@.security)]",
		"$.paths.*.*[?(!@.security[?(@.customer_session)])].security",
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, expr := range exprs {
			if _, err := Parse(expr); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// benchDoc builds a document with many operations so segment expansion and
// filter evaluation dominate, not fixture setup.
func benchDoc(pathCount int) map[string]any {
	paths := make(map[string]any, pathCount)
	for i := 0; i < pathCount; i++ {
		op := map[string]any{
			"operationId": fmt.Sprintf("op%d", i),
		}
		if i%2 == 0 {
			op["security"] = []any{
				map[string]any{"access_token": []any{}},
			}
		}
		paths[fmt.Sprintf("/resource%d", i)] = map[string]any{"get": op}
	}
	return map[string]any{
		"openapi": "3.1.0",
		"paths":   paths,
	}
}

func BenchmarkMatches(b *testing.B) {
	doc := benchDoc(100)
	path, err := Parse("$.paths.*.*.operationId")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if matches := path.Matches(doc); len(matches) != 100 {
			b.Fatalf("got %d matches", len(matches))
		}
	}
}

func BenchmarkFilterMatches(b *testing.B) {
	doc := benchDoc(100)
	path, err := Parse("$.paths.*.*[?(!@.security)]")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if matches := path.Matches(doc); len(matches) != 50 {
			b.Fatalf("got %d matches", len(matches))
		}
	}
}

func BenchmarkNestedFilterMatches(b *testing.B) {
	doc := benchDoc(100)
	path, err := Parse("$.paths.*.*[?(!@.security[?(@.customer_session)])].security")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if matches := path.Matches(doc); len(matches) != 50 {
			b.Fatalf("got %d matches", len(matches))
		}
	}
}
