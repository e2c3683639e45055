package transform

import (
	"encoding/json"
	"reflect"
	"testing"

	openfga "github.com/openfga/go-sdk"

	"github.com/nithish611/openfga-ui/internal/model"
)

// testModel uses relation and condition names that are already in sorted
// order, since the wire format's JSON objects force FromSDK to sort.
func testModel() *model.AuthorizationModel {
	return &model.AuthorizationModel{
		SchemaVersion: model.SchemaVersion1_1,
		TypeDefinitions: []model.TypeDefinition{
			{Type: "user"},
			{
				Type: "document",
				Relations: []model.Relation{
					{
						Name:            "owner",
						Rewrite:         model.This{},
						DirectlyRelated: []model.RelationReference{{Type: "user"}},
					},
					{
						Name: "parent_viewer",
						Rewrite: model.TupleToUserset{
							Tupleset: "parent",
							Computed: "viewer",
						},
					},
					{
						Name: "viewer",
						Rewrite: model.Union{Children: []model.Userset{
							model.This{},
							model.ComputedUserset{Relation: "owner"},
						}},
						DirectlyRelated: []model.RelationReference{
							{Type: "user"},
							{Type: "group", Relation: "member"},
							{Type: "document", Wildcard: true},
							{Type: "user", Condition: "valid_time"},
						},
					},
				},
			},
		},
		Conditions: []model.Condition{{
			Name:       "valid_time",
			Expression: "current < expiry",
			Parameters: []model.ConditionParameter{
				{Name: "current", TypeName: "timestamp"},
				{Name: "expiry", TypeName: "timestamp"},
			},
		}},
	}
}

func TestSDKRoundTrip(t *testing.T) {
	m := testModel()
	sdk := ToSDK(m)
	back := FromSDK(&sdk)

	if !reflect.DeepEqual(back, m) {
		t.Errorf("SDK round trip changed the model:\ngot  %+v\nwant %+v", back, m)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m := testModel()

	data, err := EncodeJSON(m)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	back, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if !reflect.DeepEqual(back, m) {
		t.Errorf("JSON round trip changed the model:\ngot  %+v\nwant %+v", back, m)
	}
}

func TestEncodeJSONShape(t *testing.T) {
	data, err := EncodeJSON(testModel())
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if doc["schema_version"] != "1.1" {
		t.Errorf("schema_version = %v", doc["schema_version"])
	}
	defs, ok := doc["type_definitions"].([]any)
	if !ok || len(defs) != 2 {
		t.Fatalf("type_definitions = %v", doc["type_definitions"])
	}

	docType := defs[1].(map[string]any)
	meta := docType["metadata"].(map[string]any)
	rels := meta["relations"].(map[string]any)
	viewerMeta := rels["viewer"].(map[string]any)
	refs := viewerMeta["directly_related_user_types"].([]any)
	if len(refs) != 4 {
		t.Errorf("viewer should carry 4 directly related user types, got %v", refs)
	}

	conds := doc["conditions"].(map[string]any)
	if _, ok := conds["valid_time"]; !ok {
		t.Errorf("conditions missing valid_time: %v", conds)
	}
}

func TestDecodeJSONInvalid(t *testing.T) {
	if _, err := DecodeJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestUsersetConversion(t *testing.T) {
	tests := []struct {
		name string
		us   model.Userset
	}{
		{"this", model.This{}},
		{"computed", model.ComputedUserset{Relation: "owner"}},
		{"tuple to userset", model.TupleToUserset{Tupleset: "parent", Computed: "viewer"}},
		{"union", model.Union{Children: []model.Userset{
			model.This{},
			model.ComputedUserset{Relation: "owner"},
		}}},
		{"intersection", model.Intersection{Children: []model.Userset{
			model.ComputedUserset{Relation: "writer"},
			model.ComputedUserset{Relation: "approver"},
		}}},
		{"difference", model.Difference{
			Base:     model.ComputedUserset{Relation: "viewer"},
			Subtract: model.ComputedUserset{Relation: "banned"},
		}},
		{"nested difference", model.Difference{
			Base: model.ComputedUserset{Relation: "a"},
			Subtract: model.Difference{
				Base:     model.ComputedUserset{Relation: "b"},
				Subtract: model.ComputedUserset{Relation: "c"},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usersetFromSDK(usersetToSDK(tt.us))
			if !reflect.DeepEqual(got, tt.us) {
				t.Errorf("round trip = %+v, want %+v", got, tt.us)
			}
		})
	}
}

func TestNilRewriteDegradesToThis(t *testing.T) {
	sdk := usersetToSDK(nil)
	if sdk.This == nil {
		t.Errorf("nil rewrite should convert to a this userset, got %+v", sdk)
	}
}

func TestTypeNameMapping(t *testing.T) {
	tests := []struct {
		dsl  string
		wire openfga.TypeName
	}{
		{"string", openfga.TypeName("TYPE_NAME_STRING")},
		{"timestamp", openfga.TypeName("TYPE_NAME_TIMESTAMP")},
		{"int", openfga.TypeName("TYPE_NAME_INT")},
		{"", openfga.TYPENAME_UNSPECIFIED},
	}

	for _, tt := range tests {
		if got := typeNameToSDK(tt.dsl); got != tt.wire {
			t.Errorf("typeNameToSDK(%q) = %q, want %q", tt.dsl, got, tt.wire)
		}
	}

	if got := typeNameFromSDK(openfga.TypeName("TYPE_NAME_STRING")); got != "string" {
		t.Errorf("typeNameFromSDK = %q, want string", got)
	}
}

func TestFromSDKSortsRelations(t *testing.T) {
	rels := map[string]openfga.Userset{
		"zebra": usersetToSDK(model.This{}),
		"alpha": usersetToSDK(model.This{}),
	}
	am := openfga.AuthorizationModel{
		SchemaVersion: "1.1",
		TypeDefinitions: []openfga.TypeDefinition{
			{Type: "document", Relations: &rels},
		},
	}

	m := FromSDK(&am)
	got := []string{m.TypeDefinitions[0].Relations[0].Name, m.TypeDefinitions[0].Relations[1].Name}
	if got[0] != "alpha" || got[1] != "zebra" {
		t.Errorf("relations not sorted: %v", got)
	}
}
