package parser

// DocumentStats contains statistical information about a specification
// document.
type DocumentStats struct {
	PathCount      int // Number of paths defined
	OperationCount int // Total number of operations across all paths
	SchemeCount    int // Number of declared security schemes
}

// httpMethods are the path item keys that denote operations.
var httpMethods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"options": true,
	"head":    true,
	"patch":   true,
	"trace":   true,
}

// IsHTTPMethod reports whether key is an HTTP method name as used in a
// path item (lowercase, per the specification).
func IsHTTPMethod(key string) bool {
	return httpMethods[key]
}

// CollectStats gathers counts from a generic specification document.
func CollectStats(doc map[string]any) DocumentStats {
	var stats DocumentStats

	if paths, ok := doc["paths"].(map[string]any); ok {
		stats.PathCount = len(paths)
		for _, item := range paths {
			pathItem, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for key := range pathItem {
				if httpMethods[key] {
					stats.OperationCount++
				}
			}
		}
	}

	// OAS 3.x declares schemes under components; 2.0 used securityDefinitions.
	if components, ok := doc["components"].(map[string]any); ok {
		if schemes, ok := components["securitySchemes"].(map[string]any); ok {
			stats.SchemeCount = len(schemes)
		}
	} else if defs, ok := doc["securityDefinitions"].(map[string]any); ok {
		stats.SchemeCount = len(defs)
	}

	return stats
}
