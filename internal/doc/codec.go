package doc

import (
	"encoding/json"
	"fmt"
)

// The wire form mirrors rustdoc JSON: inner is an object with exactly one
// key naming the variant. Decoding dispatches on that key, so a record
// with zero or several variants is rejected outright.

const (
	kindFunction  = "function"
	kindStruct    = "struct"
	kindEnum      = "enum"
	kindConstant  = "constant"
	kindTrait     = "trait"
	kindTraitItem = "trait_item"
	kindModule    = "module"

	traitKindConst  = "const"
	traitKindMethod = "method"
	traitKindType   = "type"
	traitKindMacro  = "macro"
)

// KindName is the storage label for an inner variant, used as the wire
// tag and as the kind column in the store index.
func KindName(in Inner) string {
	switch in.(type) {
	case Function:
		return kindFunction
	case Struct:
		return kindStruct
	case Enum:
		return kindEnum
	case Constant:
		return kindConstant
	case Trait:
		return kindTrait
	case TraitItem:
		return kindTraitItem
	case Module:
		return kindModule
	default:
		panic(fmt.Sprintf("unhandled inner variant %T", in))
	}
}

type entryJSON struct {
	Path       []string                   `json:"path"`
	Name       string                     `json:"name"`
	CrateInfo  string                     `json:"crate_info"`
	Visibility string                     `json:"visibility,omitempty"`
	Inner      map[string]json.RawMessage `json:"inner"`
	Docs       []string                   `json:"docs,omitempty"`
}

type functionJSON struct {
	Signature string `json:"signature"`
	Kind      string `json:"kind"`
}

type constantJSON struct {
	Type string `json:"type"`
	Expr string `json:"expr,omitempty"`
}

type traitMethodJSON struct {
	Signature string `json:"signature"`
}

type traitTypeJSON struct {
	Type string `json:"type,omitempty"`
}

type traitMacroJSON struct {
	Body string `json:"body"`
}

type moduleJSON struct {
	IsCrateRoot bool `json:"is_crate_root"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	inner, err := marshalInner(e.Inner)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryJSON{
		Path:       e.Path,
		Name:       e.Name,
		CrateInfo:  e.CrateInfo,
		Visibility: e.Visibility,
		Inner:      inner,
		Docs:       e.Attrs,
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	inner, err := unmarshalInner(raw.Inner)
	if err != nil {
		return fmt.Errorf("entry %s: %w", raw.Name, err)
	}

	*e = Entry{
		Path:       raw.Path,
		Name:       raw.Name,
		CrateInfo:  raw.CrateInfo,
		Visibility: raw.Visibility,
		Inner:      inner,
		Attrs:      raw.Docs,
	}
	return nil
}

func marshalInner(in Inner) (map[string]json.RawMessage, error) {
	var payload any
	switch v := in.(type) {
	case Function:
		payload = functionJSON{Signature: v.Signature, Kind: string(v.Kind)}
	case Constant:
		payload = constantJSON{Type: v.Type, Expr: v.Expr}
	case TraitItem:
		item, err := marshalTraitItem(v.Item)
		if err != nil {
			return nil, err
		}
		payload = item
	case Module:
		payload = moduleJSON{IsCrateRoot: v.IsCrateRoot}
	case Struct, Enum, Trait:
		payload = struct{}{}
	default:
		return nil, fmt.Errorf("unhandled inner variant %T", in)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return map[string]json.RawMessage{KindName(in): raw}, nil
}

func marshalTraitItem(item TraitItemKind) (map[string]json.RawMessage, error) {
	var tag string
	var payload any
	switch v := item.(type) {
	case TraitConst:
		tag, payload = traitKindConst, constantJSON{Type: v.Type, Expr: v.Expr}
	case TraitMethod:
		tag, payload = traitKindMethod, traitMethodJSON{Signature: v.Signature}
	case TraitType:
		tag, payload = traitKindType, traitTypeJSON{Type: v.Type}
	case TraitMacro:
		tag, payload = traitKindMacro, traitMacroJSON{Body: v.Body}
	default:
		return nil, fmt.Errorf("unhandled trait item variant %T", item)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return map[string]json.RawMessage{tag: raw}, nil
}

// singleKey unwraps the one-key variant envelope.
func singleKey(m map[string]json.RawMessage) (string, json.RawMessage, error) {
	if len(m) != 1 {
		return "", nil, fmt.Errorf("variant envelope has %d keys, want exactly 1", len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", nil, nil // unreachable
}

func unmarshalInner(m map[string]json.RawMessage) (Inner, error) {
	tag, raw, err := singleKey(m)
	if err != nil {
		return nil, err
	}

	switch tag {
	case kindFunction:
		var f functionJSON
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return Function{Signature: f.Signature, Kind: FnKind(f.Kind)}, nil
	case kindStruct:
		return Struct{}, nil
	case kindEnum:
		return Enum{}, nil
	case kindConstant:
		var c constantJSON
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return Constant{Type: c.Type, Expr: c.Expr}, nil
	case kindTrait:
		return Trait{}, nil
	case kindTraitItem:
		var item map[string]json.RawMessage
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		kind, err := unmarshalTraitItem(item)
		if err != nil {
			return nil, err
		}
		return TraitItem{Item: kind}, nil
	case kindModule:
		var m moduleJSON
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return Module{IsCrateRoot: m.IsCrateRoot}, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q", tag)
	}
}

func unmarshalTraitItem(m map[string]json.RawMessage) (TraitItemKind, error) {
	tag, raw, err := singleKey(m)
	if err != nil {
		return nil, err
	}

	switch tag {
	case traitKindConst:
		var c constantJSON
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return TraitConst{Type: c.Type, Expr: c.Expr}, nil
	case traitKindMethod:
		var v traitMethodJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TraitMethod{Signature: v.Signature}, nil
	case traitKindType:
		var v traitTypeJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TraitType{Type: v.Type}, nil
	case traitKindMacro:
		var v traitMacroJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return TraitMacro{Body: v.Body}, nil
	default:
		return nil, fmt.Errorf("unknown trait item kind %q", tag)
	}
}
