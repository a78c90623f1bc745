package extract

import (
	"encoding/json"
	"strconv"
	"strings"
)

// fnSignatureText builds the parameter/return text of a function from
// structured rustdoc JSON, e.g. "(x: i32) -> i32". The leading "fn name"
// is the formatter's job, not ours.
func fnSignatureText(fnData json.RawMessage, crate *rustdocCrate) string {
	var fn struct {
		Sig struct {
			Inputs []json.RawMessage `json:"inputs"`
			Output json.RawMessage   `json:"output"`
		} `json:"sig"`
		Header struct {
			IsConst  bool `json:"is_const"`
			IsUnsafe bool `json:"is_unsafe"`
			IsAsync  bool `json:"is_async"`
		} `json:"header"`
	}
	if err := json.Unmarshal(fnData, &fn); err != nil {
		return "()"
	}

	var b strings.Builder
	b.WriteString("(")

	var params []string
	for _, input := range fn.Sig.Inputs {
		var pair []json.RawMessage
		if err := json.Unmarshal(input, &pair); err != nil || len(pair) < 2 {
			continue
		}
		var paramName string
		json.Unmarshal(pair[0], &paramName)

		if paramName == "self" {
			params = append(params, selfShorthand(pair[1]))
			continue
		}
		params = append(params, paramName+": "+plainTypeName(pair[1], crate))
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")

	if len(fn.Sig.Output) > 0 && string(fn.Sig.Output) != "null" {
		if ret := plainTypeName(fn.Sig.Output, crate); ret != "" {
			b.WriteString(" -> ")
			b.WriteString(ret)
		}
	}

	return b.String()
}

// selfShorthand converts a rustdoc self-parameter type to Rust shorthand:
// {"generic": "Self"} → "self", a borrowed ref → "&self" / "&mut self".
func selfShorthand(typeJSON json.RawMessage) string {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(typeJSON, &outer); err != nil {
		return "self"
	}
	if _, ok := outer["generic"]; ok {
		return "self"
	}
	if br, ok := outer["borrowed_ref"]; ok {
		var r struct {
			Lifetime  *string `json:"lifetime"`
			IsMutable bool    `json:"is_mutable"`
		}
		json.Unmarshal(br, &r)
		prefix := "&"
		if r.Lifetime != nil && *r.Lifetime != "" {
			prefix += *r.Lifetime + " "
		}
		if r.IsMutable {
			prefix += "mut "
		}
		return prefix + "self"
	}
	return "self"
}

// plainTypeName extracts a plain-text type name from a rustdoc Type
// JSON. Unrepresentable shapes degrade to "".
func plainTypeName(typeJSON json.RawMessage, crate *rustdocCrate) string {
	if len(typeJSON) == 0 || string(typeJSON) == "null" {
		return ""
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(typeJSON, &outer); err != nil {
		return ""
	}

	if prim, ok := outer["primitive"]; ok {
		var name string
		if err := json.Unmarshal(prim, &name); err == nil {
			return name
		}
	}

	if g, ok := outer["generic"]; ok {
		var name string
		if err := json.Unmarshal(g, &name); err == nil {
			return name
		}
	}

	if resolved, ok := outer["resolved_path"]; ok {
		return resolvedPathName(resolved, crate)
	}

	if br, ok := outer["borrowed_ref"]; ok {
		var r struct {
			Lifetime  *string         `json:"lifetime"`
			IsMutable bool            `json:"is_mutable"`
			Type      json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(br, &r); err != nil {
			return ""
		}
		inner := plainTypeName(r.Type, crate)
		if inner == "" {
			return ""
		}
		prefix := "&"
		if r.Lifetime != nil && *r.Lifetime != "" {
			prefix += *r.Lifetime + " "
		}
		if r.IsMutable {
			prefix += "mut "
		}
		return prefix + inner
	}

	if sl, ok := outer["slice"]; ok {
		if inner := plainTypeName(sl, crate); inner != "" {
			return "[" + inner + "]"
		}
	}

	if tp, ok := outer["tuple"]; ok {
		var types []json.RawMessage
		if err := json.Unmarshal(tp, &types); err == nil {
			parts := make([]string, 0, len(types))
			for _, t := range types {
				parts = append(parts, plainTypeName(t, crate))
			}
			return "(" + strings.Join(parts, ", ") + ")"
		}
	}

	if qp, ok := outer["qualified_path"]; ok {
		var q struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(qp, &q); err == nil {
			return q.Name
		}
	}

	return ""
}

func resolvedPathName(resolved json.RawMessage, crate *rustdocCrate) string {
	var rp struct {
		Name string           `json:"name"`
		ID   int              `json:"id"`
		Args *json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(resolved, &rp); err != nil {
		return ""
	}

	// Name can be empty in rustdoc JSON — fall back to the paths table.
	name := rp.Name
	if name == "" {
		if summary, ok := crate.Paths[strconv.Itoa(rp.ID)]; ok && len(summary.Path) > 0 {
			name = summary.Path[len(summary.Path)-1]
		}
	}
	if name == "" {
		return ""
	}

	if rp.Args != nil {
		if args := genericArgsText(*rp.Args, crate); args != "" {
			return name + args
		}
	}
	return name
}

func genericArgsText(argsJSON json.RawMessage, crate *rustdocCrate) string {
	var args struct {
		AngleBracketed *struct {
			Args []json.RawMessage `json:"args"`
		} `json:"angle_bracketed"`
	}
	if err := json.Unmarshal(argsJSON, &args); err != nil || args.AngleBracketed == nil {
		return ""
	}

	var parts []string
	for _, arg := range args.AngleBracketed.Args {
		var a map[string]json.RawMessage
		if err := json.Unmarshal(arg, &a); err != nil {
			continue
		}
		if typeData, ok := a["type"]; ok {
			if t := plainTypeName(typeData, crate); t != "" {
				parts = append(parts, t)
			}
		} else if lifetime, ok := a["lifetime"]; ok {
			var lt string
			if json.Unmarshal(lifetime, &lt) == nil {
				parts = append(parts, lt)
			}
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
