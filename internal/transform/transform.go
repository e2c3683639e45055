// Package transform converts between the internal authorization-model
// document and the OpenFGA SDK wire types, including their JSON form.
//
// The wire format stores relations, metadata, and conditions in JSON objects,
// which carry no order. Converting from the wire format therefore sorts
// relation and condition names so the resulting document is deterministic.
package transform

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	openfga "github.com/openfga/go-sdk"

	"github.com/nithish611/openfga-ui/internal/model"
)

// ToSDK converts a structured document to the SDK's wire representation.
// The model ID is left empty; the remote service assigns one on write.
func ToSDK(m *model.AuthorizationModel) openfga.AuthorizationModel {
	out := openfga.AuthorizationModel{
		SchemaVersion:   m.SchemaVersion,
		TypeDefinitions: make([]openfga.TypeDefinition, 0, len(m.TypeDefinitions)),
	}
	for _, td := range m.TypeDefinitions {
		out.TypeDefinitions = append(out.TypeDefinitions, typeDefinitionToSDK(td))
	}
	if len(m.Conditions) > 0 {
		conds := make(map[string]openfga.Condition, len(m.Conditions))
		for _, c := range m.Conditions {
			conds[c.Name] = conditionToSDK(c)
		}
		out.Conditions = &conds
	}
	return out
}

// FromSDK converts a wire document to the structured form. Relation and
// condition order is the sorted name order; type definition order is kept.
func FromSDK(am *openfga.AuthorizationModel) *model.AuthorizationModel {
	out := &model.AuthorizationModel{SchemaVersion: am.SchemaVersion}
	for _, td := range am.TypeDefinitions {
		out.TypeDefinitions = append(out.TypeDefinitions, typeDefinitionFromSDK(td))
	}
	if am.Conditions != nil {
		for _, name := range sortedKeys(*am.Conditions) {
			out.Conditions = append(out.Conditions, conditionFromSDK((*am.Conditions)[name]))
		}
	}
	return out
}

// EncodeJSON renders a structured document as indented wire-format JSON.
func EncodeJSON(m *model.AuthorizationModel) ([]byte, error) {
	sdk := ToSDK(m)
	return json.MarshalIndent(sdk, "", "  ")
}

// DecodeJSON parses wire-format JSON into a structured document.
func DecodeJSON(data []byte) (*model.AuthorizationModel, error) {
	var am openfga.AuthorizationModel
	if err := json.Unmarshal(data, &am); err != nil {
		return nil, fmt.Errorf("parse authorization model JSON: %w", err)
	}
	return FromSDK(&am), nil
}

func typeDefinitionToSDK(td model.TypeDefinition) openfga.TypeDefinition {
	out := openfga.TypeDefinition{Type: td.Type}
	if len(td.Relations) == 0 {
		return out
	}

	rels := make(map[string]openfga.Userset, len(td.Relations))
	meta := make(map[string]openfga.RelationMetadata, len(td.Relations))
	for _, rel := range td.Relations {
		rels[rel.Name] = usersetToSDK(rel.Rewrite)

		var rm openfga.RelationMetadata
		if len(rel.DirectlyRelated) > 0 {
			refs := make([]openfga.RelationReference, 0, len(rel.DirectlyRelated))
			for _, r := range rel.DirectlyRelated {
				refs = append(refs, referenceToSDK(r))
			}
			rm.DirectlyRelatedUserTypes = &refs
		}
		meta[rel.Name] = rm
	}
	out.Relations = &rels
	out.Metadata = &openfga.Metadata{Relations: &meta}
	return out
}

func typeDefinitionFromSDK(td openfga.TypeDefinition) model.TypeDefinition {
	out := model.TypeDefinition{Type: td.Type}
	if td.Relations == nil {
		return out
	}

	for _, name := range sortedKeys(*td.Relations) {
		rel := model.Relation{Name: name, Rewrite: usersetFromSDK((*td.Relations)[name])}
		if td.Metadata != nil && td.Metadata.Relations != nil {
			if rm, ok := (*td.Metadata.Relations)[name]; ok && rm.DirectlyRelatedUserTypes != nil {
				for _, ref := range *rm.DirectlyRelatedUserTypes {
					rel.DirectlyRelated = append(rel.DirectlyRelated, referenceFromSDK(ref))
				}
			}
		}
		out.Relations = append(out.Relations, rel)
	}
	return out
}

func usersetToSDK(us model.Userset) openfga.Userset {
	switch u := us.(type) {
	case model.This:
		this := map[string]interface{}{}
		return openfga.Userset{This: &this}

	case model.ComputedUserset:
		return openfga.Userset{ComputedUserset: &openfga.ObjectRelation{
			Relation: openfga.PtrString(u.Relation),
		}}

	case model.TupleToUserset:
		return openfga.Userset{TupleToUserset: &openfga.TupleToUserset{
			Tupleset:        openfga.ObjectRelation{Relation: openfga.PtrString(u.Tupleset)},
			ComputedUserset: openfga.ObjectRelation{Relation: openfga.PtrString(u.Computed)},
		}}

	case model.Union:
		return openfga.Userset{Union: &openfga.Usersets{Child: childrenToSDK(u.Children)}}

	case model.Intersection:
		return openfga.Userset{Intersection: &openfga.Usersets{Child: childrenToSDK(u.Children)}}

	case model.Difference:
		return openfga.Userset{Difference: &openfga.Difference{
			Base:     usersetToSDK(u.Base),
			Subtract: usersetToSDK(u.Subtract),
		}}

	default:
		// A nil rewrite from upstream data issues degrades to direct
		// assignment, matching the parser's lenient policy.
		this := map[string]interface{}{}
		return openfga.Userset{This: &this}
	}
}

func childrenToSDK(children []model.Userset) []openfga.Userset {
	out := make([]openfga.Userset, 0, len(children))
	for _, c := range children {
		out = append(out, usersetToSDK(c))
	}
	return out
}

func usersetFromSDK(us openfga.Userset) model.Userset {
	switch {
	case us.Union != nil:
		return model.Union{Children: childrenFromSDK(us.Union.Child)}
	case us.Intersection != nil:
		return model.Intersection{Children: childrenFromSDK(us.Intersection.Child)}
	case us.Difference != nil:
		return model.Difference{
			Base:     usersetFromSDK(us.Difference.Base),
			Subtract: usersetFromSDK(us.Difference.Subtract),
		}
	case us.TupleToUserset != nil:
		return model.TupleToUserset{
			Tupleset: relationName(&us.TupleToUserset.Tupleset),
			Computed: relationName(&us.TupleToUserset.ComputedUserset),
		}
	case us.ComputedUserset != nil:
		return model.ComputedUserset{Relation: relationName(us.ComputedUserset)}
	default:
		return model.This{}
	}
}

func childrenFromSDK(children []openfga.Userset) []model.Userset {
	out := make([]model.Userset, 0, len(children))
	for _, c := range children {
		out = append(out, usersetFromSDK(c))
	}
	return out
}

func relationName(or *openfga.ObjectRelation) string {
	if or == nil || or.Relation == nil {
		return ""
	}
	return *or.Relation
}

func referenceToSDK(r model.RelationReference) openfga.RelationReference {
	out := openfga.RelationReference{Type: r.Type}
	switch {
	case r.Wildcard:
		wildcard := map[string]interface{}{}
		out.Wildcard = &wildcard
	case r.Relation != "":
		out.Relation = openfga.PtrString(r.Relation)
	case r.Condition != "":
		out.Condition = openfga.PtrString(r.Condition)
	}
	return out
}

func referenceFromSDK(r openfga.RelationReference) model.RelationReference {
	out := model.RelationReference{Type: r.Type}
	switch {
	case r.Wildcard != nil:
		out.Wildcard = true
	case r.Relation != nil && *r.Relation != "":
		out.Relation = *r.Relation
	case r.Condition != nil && *r.Condition != "":
		out.Condition = *r.Condition
	}
	return out
}

func conditionToSDK(c model.Condition) openfga.Condition {
	out := openfga.Condition{Name: c.Name, Expression: c.Expression}
	if len(c.Parameters) > 0 {
		params := make(map[string]openfga.ConditionParamTypeRef, len(c.Parameters))
		for _, p := range c.Parameters {
			params[p.Name] = openfga.ConditionParamTypeRef{TypeName: typeNameToSDK(p.TypeName)}
		}
		out.Parameters = &params
	}
	return out
}

func conditionFromSDK(c openfga.Condition) model.Condition {
	out := model.Condition{Name: c.Name, Expression: c.Expression}
	if c.Parameters != nil {
		for _, name := range sortedKeys(*c.Parameters) {
			out.Parameters = append(out.Parameters, model.ConditionParameter{
				Name:     name,
				TypeName: typeNameFromSDK((*c.Parameters)[name].TypeName),
			})
		}
	}
	return out
}

// typeNameToSDK maps a DSL parameter type ("string", "timestamp") to the wire
// enum form ("TYPE_NAME_STRING").
func typeNameToSDK(name string) openfga.TypeName {
	if name == "" {
		return openfga.TYPENAME_UNSPECIFIED
	}
	return openfga.TypeName("TYPE_NAME_" + strings.ToUpper(name))
}

func typeNameFromSDK(tn openfga.TypeName) string {
	return strings.ToLower(strings.TrimPrefix(string(tn), "TYPE_NAME_"))
}

// sortedKeys returns the keys of m in sorted order. It mirrors
// slices.Sorted(maps.Keys(m)), which needs a Go 1.23 toolchain.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
