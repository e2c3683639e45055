// Package dsl implements the textual authorization-model language: a lenient
// line-oriented parser, the inverse serializer, and a live validator that
// checks editor text line by line without parsing it.
package dsl

import (
	"strings"

	"github.com/nithish611/openfga-ui/internal/model"
)

// Parse converts DSL text into a structured authorization model. It is total:
// unrecognized relation expressions degrade to direct assignment (with the
// relation's Fallback marker set) instead of failing, so partially written or
// template text still yields a renderable document. Correctness is enforced
// separately, by Validate and ultimately by the remote service on save.
func Parse(text string) *model.AuthorizationModel {
	m := &model.AuthorizationModel{SchemaVersion: model.SchemaVersion1_1}

	var (
		current     *model.TypeDefinition
		cond        model.Condition
		condBody    []string
		inCondition bool
	)

	flushType := func() {
		if current != nil {
			m.TypeDefinitions = append(m.TypeDefinitions, *current)
			current = nil
		}
	}
	closeCondition := func() {
		cond.Expression = strings.TrimSpace(strings.Join(condBody, "\n"))
		m.Conditions = append(m.Conditions, cond)
		condBody = nil
		inCondition = false
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if inCondition {
			if line == "}" {
				closeCondition()
			} else {
				condBody = append(condBody, raw)
			}
			continue
		}

		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//"):
			continue

		case line == "model":
			continue

		case strings.HasPrefix(line, "schema "):
			m.SchemaVersion = strings.TrimSpace(strings.TrimPrefix(line, "schema "))

		case strings.HasPrefix(line, "type "):
			flushType()
			current = &model.TypeDefinition{Type: strings.TrimSpace(strings.TrimPrefix(line, "type "))}

		case line == "relations":
			continue

		case strings.HasPrefix(line, "condition "):
			flushType()
			var inline string
			var closed bool
			cond, inline, closed = parseConditionHeader(line)
			if closed {
				cond.Expression = inline
				m.Conditions = append(m.Conditions, cond)
			} else {
				if inline != "" {
					condBody = append(condBody, inline)
				}
				inCondition = true
			}

		case strings.HasPrefix(line, "define "):
			if current == nil {
				continue
			}
			name, expr, ok := strings.Cut(strings.TrimPrefix(line, "define "), ":")
			if !ok {
				continue
			}
			expr = strings.TrimSpace(expr)
			rel := model.Relation{Name: strings.TrimSpace(name)}
			rel.Rewrite, rel.Fallback = parseExpression(expr)
			rel.DirectlyRelated = headBracketRefs(expr)
			current.Relations = append(current.Relations, rel)
		}
	}

	if inCondition {
		closeCondition()
	}
	flushType()
	return m
}

// parseExpression parses one relation rewrite expression by recursive
// descent. The bool result reports whether any part of the expression hit
// the lenient default (parsed as direct assignment without matching a known
// shape).
func parseExpression(expr string) (model.Userset, bool) {
	expr = strings.TrimSpace(expr)

	if parts := splitTopLevel(expr, " or "); len(parts) > 1 {
		children, fallback := parseParts(parts)
		return model.Union{Children: children}, fallback
	}

	if parts := splitTopLevel(expr, " and "); len(parts) > 1 {
		children, fallback := parseParts(parts)
		return model.Intersection{Children: children}, fallback
	}

	if base, subtract, found := strings.Cut(expr, " but not "); found {
		b, bf := parseExpression(base)
		s, sf := parseExpression(subtract)
		return model.Difference{Base: b, Subtract: s}, bf || sf
	}

	if tupleset, computed, found := strings.Cut(expr, "->"); found {
		return model.TupleToUserset{
			Tupleset: strings.TrimSpace(tupleset),
			Computed: strings.TrimSpace(computed),
		}, false
	}

	if model.ValidIdentifier(expr) {
		return model.ComputedUserset{Relation: expr}, false
	}

	if strings.HasPrefix(expr, "[") {
		if end := strings.Index(expr, "]"); end >= 0 {
			// "[Type] or otherRelation" shorthand when the operator split
			// above did not fire.
			trailing := strings.TrimSpace(expr[end+1:])
			if rest, found := strings.CutPrefix(trailing, "or "); found {
				child, fallback := parseExpression(rest)
				return model.Union{Children: []model.Userset{model.This{}, child}}, fallback
			}
			return model.This{}, false
		}
	}

	return model.This{}, true
}

func parseParts(parts []string) ([]model.Userset, bool) {
	children := make([]model.Userset, 0, len(parts))
	fallback := false
	for _, p := range parts {
		child, fb := parseExpression(p)
		children = append(children, child)
		fallback = fallback || fb
	}
	return children, fallback
}

// splitTopLevel splits s on sep, ignoring occurrences inside bracket lists.
// It tracks '['/']' nesting depth character by character and only splits at
// depth zero, so "[user, group#member] or owner" splits after the list and
// never on the comma-adjacent text inside it.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); {
		switch {
		case s[i] == '[':
			depth++
			i++
		case s[i] == ']':
			if depth > 0 {
				depth--
			}
			i++
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			parts = append(parts, strings.TrimSpace(s[start:i]))
			i += len(sep)
			start = i
		default:
			i++
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// headBracketRefs extracts the relation references from a bracket list at the
// head of expr, e.g. "[user, group#member, document:*, user with valid_ip]".
// Returns nil when the expression does not open with a complete list.
func headBracketRefs(expr string) []model.RelationReference {
	if !strings.HasPrefix(expr, "[") {
		return nil
	}
	end := strings.Index(expr, "]")
	if end < 0 {
		return nil
	}

	var refs []model.RelationReference
	for _, entry := range strings.Split(expr[1:end], ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		refs = append(refs, parseTypeRef(entry))
	}
	return refs
}

// parseTypeRef parses one bracket-list entry. Trailing ":*" marks a wildcard,
// "#" a sub-relation, " with " a condition; anything else is a plain type.
func parseTypeRef(entry string) model.RelationReference {
	switch {
	case strings.HasSuffix(entry, ":*"):
		return model.RelationReference{Type: strings.TrimSuffix(entry, ":*"), Wildcard: true}
	case strings.Contains(entry, "#"):
		typeName, relation, _ := strings.Cut(entry, "#")
		return model.RelationReference{Type: strings.TrimSpace(typeName), Relation: strings.TrimSpace(relation)}
	case strings.Contains(entry, " with "):
		typeName, condition, _ := strings.Cut(entry, " with ")
		return model.RelationReference{Type: strings.TrimSpace(typeName), Condition: strings.TrimSpace(condition)}
	default:
		return model.RelationReference{Type: entry}
	}
}

// parseConditionHeader parses a "condition <name>(<params>) {" line. When the
// body is inline ("condition x(...) { expr }"), closed is true and body holds
// the expression; otherwise body holds any text after the opening brace and
// the caller keeps accumulating lines until a closing "}".
func parseConditionHeader(line string) (cond model.Condition, body string, closed bool) {
	rest := strings.TrimPrefix(line, "condition ")
	name, rest, _ := strings.Cut(rest, "(")
	params, rest, _ := strings.Cut(rest, ")")

	cond = model.Condition{Name: strings.TrimSpace(name)}
	for _, p := range strings.Split(params, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pname, ptype, _ := strings.Cut(p, ":")
		cond.Parameters = append(cond.Parameters, model.ConditionParameter{
			Name:     strings.TrimSpace(pname),
			TypeName: strings.TrimSpace(ptype),
		})
	}

	if _, after, found := strings.Cut(rest, "{"); found {
		after = strings.TrimSpace(after)
		if inner, ok := strings.CutSuffix(after, "}"); ok && after != "" {
			return cond, strings.TrimSpace(inner), true
		}
		return cond, after, false
	}
	return cond, "", false
}
