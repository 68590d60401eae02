// Package auditor reports the effective security posture of every operation
// in a specification document.
//
// The effective requirement of an operation is its own security array when
// the field is present, otherwise the document-global security, otherwise
// nothing. An empty requirement list, or a list containing the empty
// requirement {}, marks the operation as optionally authenticated. This is
// the report a reviewer runs after applying a security overlay to confirm
// which operations ended up public, which fell back to the global scheme,
// and which kept their own.
package auditor

import (
	"github.com/erraggy/oasoverlay/internal/maputil"
	"github.com/erraggy/oasoverlay/parser"
)

// Source identifies where an operation's effective security comes from.
type Source string

const (
	// SourceOperation means the operation declares its own security array.
	SourceOperation Source = "operation"
	// SourceGlobal means the operation inherits the document-global security.
	SourceGlobal Source = "global"
	// SourceNone means neither the operation nor the document declares security.
	SourceNone Source = "none"
)

// SchemeInfo describes one declared security scheme.
type SchemeInfo struct {
	// Name is the scheme's key under components.securitySchemes.
	Name string `yaml:"name" json:"name"`
	// Type is the scheme type (http, apiKey, oauth2, openIdConnect).
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Scheme is the HTTP auth scheme for type http (bearer, basic).
	Scheme string `yaml:"scheme,omitempty" json:"scheme,omitempty"`
	// Description is the scheme's description, if any.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// OperationSecurity describes the effective security of one operation.
type OperationSecurity struct {
	// Path is the path template, e.g. "/v1/customer-portal/orders".
	Path string `yaml:"path" json:"path"`
	// Method is the HTTP method in lowercase.
	Method string `yaml:"method" json:"method"`
	// OperationID is the operation's operationId, if declared.
	OperationID string `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	// Source says where the effective requirements come from.
	Source Source `yaml:"source" json:"source"`
	// Requirements is the effective security requirement list. Each entry
	// maps scheme names to scope lists; an empty entry means "no auth".
	Requirements []map[string][]string `yaml:"requirements,omitempty" json:"requirements,omitempty"`
	// Optional is true when the requirements allow unauthenticated access:
	// the list is empty or contains the empty requirement {}.
	Optional bool `yaml:"optional" json:"optional"`
}

// RequiresScheme reports whether any effective requirement names the scheme.
func (o OperationSecurity) RequiresScheme(name string) bool {
	for _, req := range o.Requirements {
		if _, ok := req[name]; ok {
			return true
		}
	}
	return false
}

// Counts summarizes the report.
type Counts struct {
	// Operations is the total number of operations audited.
	Operations int `yaml:"operations" json:"operations"`
	// OperationScoped counts operations with their own security array.
	OperationScoped int `yaml:"operationScoped" json:"operationScoped"`
	// GlobalScoped counts operations inheriting the document security.
	GlobalScoped int `yaml:"globalScoped" json:"globalScoped"`
	// Unsecured counts operations with no effective requirements at all.
	Unsecured int `yaml:"unsecured" json:"unsecured"`
	// Optional counts operations allowing unauthenticated access.
	Optional int `yaml:"optional" json:"optional"`
}

// Report is the full effective-security audit of a document.
type Report struct {
	// Schemes lists the declared security schemes, sorted by name.
	Schemes []SchemeInfo `yaml:"schemes" json:"schemes"`
	// Operations lists every operation's effective security, sorted by
	// path then method.
	Operations []OperationSecurity `yaml:"operations" json:"operations"`
	// Counts summarizes the operations.
	Counts Counts `yaml:"counts" json:"counts"`
}

// ByScheme returns the operations whose effective requirements name the scheme.
func (r *Report) ByScheme(name string) []OperationSecurity {
	var out []OperationSecurity
	for _, op := range r.Operations {
		if op.RequiresScheme(name) {
			out = append(out, op)
		}
	}
	return out
}

// Public returns the operations that allow unauthenticated access.
func (r *Report) Public() []OperationSecurity {
	var out []OperationSecurity
	for _, op := range r.Operations {
		if op.Optional {
			out = append(out, op)
		}
	}
	return out
}

// Audit computes the effective security of every operation in the parsed
// document. The document is not modified.
func Audit(result *parser.ParseResult) *Report {
	report := &Report{}
	doc := result.Document

	report.Schemes = collectSchemes(doc)
	global := securityRequirements(doc["security"])

	paths, _ := doc["paths"].(map[string]any)
	for _, path := range maputil.SortedKeys(paths) {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range maputil.SortedKeys(item) {
			if !parser.IsHTTPMethod(method) {
				continue
			}
			op, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			report.Operations = append(report.Operations, auditOperation(path, method, op, global))
		}
	}

	for _, op := range report.Operations {
		report.Counts.Operations++
		switch op.Source {
		case SourceOperation:
			report.Counts.OperationScoped++
		case SourceGlobal:
			report.Counts.GlobalScoped++
		case SourceNone:
			report.Counts.Unsecured++
		}
		if op.Optional {
			report.Counts.Optional++
		}
	}

	return report
}

func auditOperation(path, method string, op map[string]any, global []map[string][]string) OperationSecurity {
	out := OperationSecurity{
		Path:   path,
		Method: method,
	}
	out.OperationID, _ = op["operationId"].(string)

	if raw, ok := op["security"]; ok {
		out.Source = SourceOperation
		out.Requirements = securityRequirements(raw)
	} else if global != nil {
		out.Source = SourceGlobal
		out.Requirements = global
	} else {
		out.Source = SourceNone
	}

	out.Optional = isOptional(out.Source, out.Requirements)
	return out
}

// isOptional reports whether the requirements admit unauthenticated access.
func isOptional(source Source, reqs []map[string][]string) bool {
	if source == SourceNone {
		return true
	}
	if len(reqs) == 0 {
		return true
	}
	for _, req := range reqs {
		if len(req) == 0 {
			return true
		}
	}
	return false
}

// securityRequirements converts a raw security array into typed requirements.
// A missing or malformed value yields nil; an explicitly empty array yields
// an empty non-nil slice so "security: []" is distinguishable from absence.
func securityRequirements(raw any) []map[string][]string {
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string][]string, 0, len(arr))
	for _, entry := range arr {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		req := make(map[string][]string, len(m))
		for scheme, scopes := range m {
			var list []string
			if scopeArr, ok := scopes.([]any); ok {
				list = make([]string, 0, len(scopeArr))
				for _, s := range scopeArr {
					if str, ok := s.(string); ok {
						list = append(list, str)
					}
				}
			}
			req[scheme] = list
		}
		out = append(out, req)
	}
	return out
}

func collectSchemes(doc map[string]any) []SchemeInfo {
	var schemes map[string]any
	if components, ok := doc["components"].(map[string]any); ok {
		schemes, _ = components["securitySchemes"].(map[string]any)
	} else if defs, ok := doc["securityDefinitions"].(map[string]any); ok {
		// OAS 2.0 location.
		schemes = defs
	}

	out := make([]SchemeInfo, 0, len(schemes))
	for _, name := range maputil.SortedKeys(schemes) {
		def, ok := schemes[name].(map[string]any)
		if !ok {
			continue
		}
		info := SchemeInfo{Name: name}
		info.Type, _ = def["type"].(string)
		info.Scheme, _ = def["scheme"].(string)
		info.Description, _ = def["description"].(string)
		out = append(out, info)
	}
	return out
}
