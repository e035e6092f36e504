// Package yaml is the YAML codec used throughout the module.
//
// It wraps github.com/goccy/go-yaml and provides two things:
//
//   - Parser, which unmarshals a document (or a section of it selected with a
//     colon separated path such as "inspect:address") into a Go struct
//   - ordered decoding into value.Value, so that map key order and the
//     list/map distinction survive the trip from fragment files into the engine
//
// Usage:
//
//	docs, err := yaml.DecodeValues(data)
//	for _, doc := range docs {
//	    fmt.Println(doc.Kind())
//	}
//
// Path Conversion:
//   - Empty path "" -> unmarshal entire document
//   - Single key "key" -> "$.key"
//   - Nested path "api:permissions" -> "$.api.permissions"
package yaml
