package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	v, err := NewSchemaValidator()
	if err != nil {
		t.Fatalf("NewSchemaValidator failed: %v", err)
	}
	return v
}

const validModelJSON = `{
  "schema_version": "1.1",
  "type_definitions": [
    {"type": "user"},
    {
      "type": "document",
      "relations": {
        "owner": {"this": {}},
        "viewer": {
          "union": {
            "child": [
              {"this": {}},
              {"computedUserset": {"relation": "owner"}}
            ]
          }
        }
      },
      "metadata": {
        "relations": {
          "owner": {"directly_related_user_types": [{"type": "user"}]},
          "viewer": {"directly_related_user_types": [{"type": "user"}, {"type": "group", "relation": "member"}]}
        }
      }
    }
  ],
  "conditions": {
    "valid_time": {
      "name": "valid_time",
      "expression": "current < expiry",
      "parameters": {
        "current": {"type_name": "TYPE_NAME_STRING"},
        "expiry": {"type_name": "TYPE_NAME_STRING"}
      }
    }
  }
}`

func parseDoc(t *testing.T, text string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestValidateDocument_Valid(t *testing.T) {
	v := newValidator(t)

	errors := v.ValidateDocument(parseDoc(t, validModelJSON))
	if len(errors) > 0 {
		t.Errorf("expected 0 errors for valid model, got %d:", len(errors))
		for _, e := range errors {
			t.Errorf("  %s", e)
		}
	}
}

func TestValidateDocument_MissingTypeDefinitions(t *testing.T) {
	v := newValidator(t)

	doc := map[string]any{"schema_version": "1.1"}
	errors := v.ValidateDocument(doc)
	if len(errors) == 0 {
		t.Fatal("expected errors for missing type_definitions")
	}
}

func TestValidateDocument_BadSchemaVersion(t *testing.T) {
	v := newValidator(t)

	doc := map[string]any{
		"schema_version":   "2.0",
		"type_definitions": []any{map[string]any{"type": "user"}},
	}
	errors := v.ValidateDocument(doc)
	if len(errors) == 0 {
		t.Fatal("expected errors for unrecognized schema_version")
	}

	found := false
	for _, e := range errors {
		if strings.Contains(e.Path, "schema_version") || strings.Contains(e.Message, "schema_version") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected error mentioning schema_version, got: %v", errors)
	}
}

func TestValidateDocument_InvalidTypeName(t *testing.T) {
	v := newValidator(t)

	doc := map[string]any{
		"schema_version":   "1.1",
		"type_definitions": []any{map[string]any{"type": "9bad name"}},
	}
	if errors := v.ValidateDocument(doc); len(errors) == 0 {
		t.Fatal("expected errors for invalid type name")
	}
}

func TestValidateDocument_UsersetWithTwoVariants(t *testing.T) {
	v := newValidator(t)

	// Exactly one variant may be populated per userset node.
	doc := map[string]any{
		"schema_version": "1.1",
		"type_definitions": []any{
			map[string]any{
				"type": "document",
				"relations": map[string]any{
					"viewer": map[string]any{
						"this":            map[string]any{},
						"computedUserset": map[string]any{"relation": "owner"},
					},
				},
			},
		},
	}
	if errors := v.ValidateDocument(doc); len(errors) == 0 {
		t.Fatal("expected errors for userset with two populated variants")
	}
}

func TestValidate_File(t *testing.T) {
	v := newValidator(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(validModelJSON), 0644); err != nil {
		t.Fatal(err)
	}

	if errors := v.Validate(path); len(errors) > 0 {
		t.Errorf("expected 0 errors, got %v", errors)
	}
}

func TestValidate_MissingFile(t *testing.T) {
	v := newValidator(t)

	errors := v.Validate(filepath.Join(t.TempDir(), "nope.json"))
	if len(errors) != 1 || !errors[0].ParseError {
		t.Errorf("expected a single ParseError, got %v", errors)
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	v := newValidator(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	errors := v.Validate(path)
	if len(errors) != 1 || !errors[0].ParseError {
		t.Errorf("expected a single ParseError, got %v", errors)
	}
}

func TestSchemaErrorString(t *testing.T) {
	withPath := SchemaError{Path: "/type_definitions/0", Message: "missing property 'type'"}
	if got := withPath.String(); got != "/type_definitions/0: missing property 'type'" {
		t.Errorf("String() = %q", got)
	}

	noPath := SchemaError{Message: "failed to parse JSON"}
	if got := noPath.String(); got != "failed to parse JSON" {
		t.Errorf("String() = %q", got)
	}
}
