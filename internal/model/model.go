// Package model defines the structured representation of an OpenFGA
// authorization model: an ordered set of type definitions, each with ordered
// relations, plus optional named conditions.
package model

import "regexp"

// Recognized schema versions.
const (
	SchemaVersion1_0 = "1.0"
	SchemaVersion1_1 = "1.1"
)

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is a valid type, relation, or condition
// name: a leading letter or underscore followed by letters, digits, or
// underscores.
func ValidIdentifier(s string) bool {
	return identRE.MatchString(s)
}

// ValidSchemaVersion reports whether v is a recognized schema version.
func ValidSchemaVersion(v string) bool {
	return v == SchemaVersion1_0 || v == SchemaVersion1_1
}

// AuthorizationModel is the structured form of an authorization model
// document. Type definitions and conditions keep their declaration order;
// that order is preserved through parse/serialize round-trips.
type AuthorizationModel struct {
	SchemaVersion   string
	TypeDefinitions []TypeDefinition
	Conditions      []Condition
}

// GetType returns the type definition with the given name, or nil.
func (m *AuthorizationModel) GetType(name string) *TypeDefinition {
	for i := range m.TypeDefinitions {
		if m.TypeDefinitions[i].Type == name {
			return &m.TypeDefinitions[i]
		}
	}
	return nil
}

// GetCondition returns the condition with the given name, or nil.
func (m *AuthorizationModel) GetCondition(name string) *Condition {
	for i := range m.Conditions {
		if m.Conditions[i].Name == name {
			return &m.Conditions[i]
		}
	}
	return nil
}

// TypeDefinition describes one object type and the relations that can exist
// on objects of that type.
type TypeDefinition struct {
	Type      string
	Relations []Relation
}

// GetRelation returns the relation with the given name, or nil.
func (td *TypeDefinition) GetRelation(name string) *Relation {
	for i := range td.Relations {
		if td.Relations[i].Name == name {
			return &td.Relations[i]
		}
	}
	return nil
}

// Relation is one named relation on a type: its rewrite rule, the user types
// allowed to be directly assigned (metadata), and a marker recording whether
// the rewrite came out of the parser's lenient fallback rather than a
// recognized expression shape.
type Relation struct {
	Name            string
	Rewrite         Userset
	DirectlyRelated []RelationReference
	Fallback        bool
}

// Userset is a set-valued rewrite expression describing which users hold a
// relation. It is a closed sum: exactly one of the variant types below, and
// nothing else, implements it.
type Userset interface {
	isUserset()
}

// This marks direct assignment: users hold the relation because a tuple says
// so. The allowed assignment sources live in Relation.DirectlyRelated.
type This struct{}

// ComputedUserset defers to another relation on the same object.
type ComputedUserset struct {
	Relation string
}

// TupleToUserset follows the Tupleset relation to another object, then takes
// the Computed relation on each object found.
type TupleToUserset struct {
	Tupleset string
	Computed string
}

// Union is the logical OR of its children, in order.
type Union struct {
	Children []Userset
}

// Intersection is the logical AND of its children, in order.
type Intersection struct {
	Children []Userset
}

// Difference is Base minus Subtract.
type Difference struct {
	Base     Userset
	Subtract Userset
}

func (This) isUserset()            {}
func (ComputedUserset) isUserset() {}
func (TupleToUserset) isUserset()  {}
func (Union) isUserset()           {}
func (Intersection) isUserset()    {}
func (Difference) isUserset()      {}

// RelationReference identifies one allowed direct-assignment source.
// At most one of Relation, Wildcard, or Condition is set: "type#relation"
// sets Relation, "type:*" sets Wildcard, and "type with cond" sets Condition.
type RelationReference struct {
	Type      string
	Relation  string
	Wildcard  bool
	Condition string
}

// String renders the reference in its DSL form.
func (r RelationReference) String() string {
	switch {
	case r.Wildcard:
		return r.Type + ":*"
	case r.Relation != "":
		return r.Type + "#" + r.Relation
	case r.Condition != "":
		return r.Type + " with " + r.Condition
	default:
		return r.Type
	}
}

// Condition is a named boolean expression evaluated by the remote service,
// with an ordered list of declared parameters.
type Condition struct {
	Name       string
	Expression string
	Parameters []ConditionParameter
}

// ConditionParameter declares one condition parameter and its type name
// ("string", "timestamp", ...).
type ConditionParameter struct {
	Name     string
	TypeName string
}
