package dsl

import (
	"fmt"
	"strings"

	"github.com/nithish611/openfga-ui/internal/model"
)

// Mode selects how direct-assignment nodes are rendered when serializing.
type Mode int

const (
	// ModeDisplay renders for the read-only DSL view. Recorded
	// directly-related user types are used only when the relation body is a
	// plain direct assignment or the first child of a union.
	ModeDisplay Mode = iota

	// ModeEdit renders text that seeds the editor. The recorded
	// directly-related user types reconstruct the bracket list whenever the
	// head of the relation body is a direct assignment, so that
	// parse -> serialize -> parse is stable for the common shapes.
	ModeEdit
)

// Serialize renders a structured authorization model as DSL text. It never
// fails: the Userset variant set is closed, and any node that matches no
// variant (a nil rewrite from upstream data issues) renders as "[unknown]".
func Serialize(m *model.AuthorizationModel, mode Mode) string {
	var b strings.Builder

	version := m.SchemaVersion
	if version == "" {
		version = model.SchemaVersion1_1
	}
	b.WriteString("model\n")
	fmt.Fprintf(&b, "  schema %s\n", version)
	b.WriteString("\n")

	for _, td := range m.TypeDefinitions {
		fmt.Fprintf(&b, "type %s\n", td.Type)
		if len(td.Relations) > 0 {
			b.WriteString("  relations\n")
			for i := range td.Relations {
				rel := &td.Relations[i]
				fmt.Fprintf(&b, "    define %s: %s\n", rel.Name,
					usersetToDSL(rel.Rewrite, rel.DirectlyRelated, mode, true))
			}
		}
		b.WriteString("\n")
	}

	for _, c := range m.Conditions {
		writeCondition(&b, c)
		b.WriteString("\n")
	}

	return b.String()
}

// SerializeUserset renders a single rewrite expression, using refs for a
// direct assignment in head position.
func SerializeUserset(us model.Userset, refs []model.RelationReference, mode Mode) string {
	return usersetToDSL(us, refs, mode, true)
}

// usersetToDSL mirrors the parser's grammar by structural recursion. head is
// true while the node is still the leading component of the relation body;
// only a head-position direct assignment may claim the metadata bracket list.
func usersetToDSL(us model.Userset, refs []model.RelationReference, mode Mode, head bool) string {
	switch u := us.(type) {
	case model.This:
		if head && len(refs) > 0 {
			return bracketList(refs)
		}
		return "[user]"

	case model.ComputedUserset:
		return u.Relation

	case model.TupleToUserset:
		return u.Tupleset + "->" + u.Computed

	case model.Union:
		parts := make([]string, len(u.Children))
		for i, child := range u.Children {
			parts[i] = usersetToDSL(child, refs, mode, head && i == 0)
		}
		return strings.Join(parts, " or ")

	case model.Intersection:
		parts := make([]string, len(u.Children))
		for i, child := range u.Children {
			parts[i] = usersetToDSL(child, refs, mode, mode == ModeEdit && head && i == 0)
		}
		return strings.Join(parts, " and ")

	case model.Difference:
		base := usersetToDSL(u.Base, refs, mode, mode == ModeEdit && head)
		subtract := usersetToDSL(u.Subtract, refs, mode, false)
		return base + " but not " + subtract

	default:
		return "[unknown]"
	}
}

func bracketList(refs []model.RelationReference) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func writeCondition(b *strings.Builder, c model.Condition) {
	params := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		params[i] = p.Name + ": " + p.TypeName
	}
	fmt.Fprintf(b, "condition %s(%s) {\n  %s\n}\n", c.Name, strings.Join(params, ", "), c.Expression)
}
