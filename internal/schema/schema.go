package schema

import (
	_ "embed"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

//go:embed schema.graphqls
var sdl string

// SDL returns the schema definition served by the API.
func SDL() string {
	return sdl
}

// Load parses and validates the schema together with the built-in prelude.
func Load() (*ast.Schema, error) {
	schemaDoc, err := parser.ParseSchemas(
		validator.Prelude,
		&ast.Source{
			Name:    "schema.graphqls",
			Input:   sdl,
			BuiltIn: false,
		},
	)
	if err != nil {
		return nil, err
	}

	return validator.ValidateSchemaDocument(schemaDoc)
}
