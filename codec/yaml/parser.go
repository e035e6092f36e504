package yaml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// Parser unmarshals YAML into Go structs, optionally below a path. It shares
// the parse step with DecodeDocuments, so settings, fragments and registry
// files report syntax errors the same way.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse unmarshals data into target. The path selects a section using colon
// (:) as separator; an empty path parses the first document.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	file, err := parseFile(data)
	if err != nil {
		return err
	}

	node, err := locate(file, path)
	if err != nil {
		return err
	}

	return decodeNode(node, target)
}

// parseFile builds the syntax tree of every document in data.
func parseFile(data []byte) (*ast.File, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return file, nil
}

// locate returns the node at path, or the first document body when path is
// empty. A nil node means there is nothing to decode.
func locate(file *ast.File, path string) (ast.Node, error) {
	if path == "" {
		if len(file.Docs) == 0 {
			return nil, nil
		}

		return file.Docs[0].Body, nil
	}

	pathObj, err := yaml.PathString(convertToYAMLPath(path))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	node, err := pathObj.FilterFile(file)
	if err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return nil, fmt.Errorf("reading path %q: %w", path, err)
	}

	return node, nil
}

func decodeNode(node ast.Node, target any, opts ...yaml.DecodeOption) error {
	if node == nil {
		return nil
	}

	err := yaml.NodeToValue(node, target, opts...)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// convertToYAMLPath converts "api:permissions" to "$.api.permissions".
func convertToYAMLPath(path string) string {
	return "$." + strings.Join(strings.Split(path, ":"), ".")
}
