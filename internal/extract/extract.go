// Package extract converts prebuilt rustdoc JSON into documentation
// entries ready for indexing. It never looks at Rust sources; rustdoc
// owns extraction and this package only reshapes its output.
package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oxidoc/oxidoc/internal/doc"
)

// rustdocCrate is the top-level structure of rustdoc JSON output.
type rustdocCrate struct {
	Root          int                       `json:"root"`
	CrateVersion  *string                   `json:"crate_version"`
	Index         map[string]rustdocItem    `json:"index"`
	Paths         map[string]rustdocSummary `json:"paths"`
	FormatVersion int                       `json:"format_version"`
}

// rustdocItem is a single item in the rustdoc index.
type rustdocItem struct {
	CrateID    int             `json:"crate_id"`
	Name       *string         `json:"name"`
	Docs       *string         `json:"docs"`
	Visibility json.RawMessage `json:"visibility"`
	Inner      json.RawMessage `json:"inner"`
}

// rustdocSummary provides the path and kind for an item.
type rustdocSummary struct {
	CrateID int      `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

// CrateDocs is one crate's extracted documentation.
type CrateDocs struct {
	Name    string
	Version string
	Entries []doc.Entry
}

// parentInfo records how a nested item reached its path: through an
// inherent impl, a trait impl, or a trait definition.
type parentInfo struct {
	path   doc.ModPath
	fnKind doc.FnKind
	inTrait bool
}

// Crate parses rustdoc JSON bytes into entries for crateName. Unknown
// item kinds are skipped, never mis-filed.
func Crate(data []byte, crateName string) (*CrateDocs, error) {
	var crate rustdocCrate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, fmt.Errorf("unmarshaling rustdoc JSON: %w", err)
	}
	if crate.Index == nil {
		return nil, fmt.Errorf("%s: missing rustdoc index", crateName)
	}

	version := "0.0.0"
	if crate.CrateVersion != nil && *crate.CrateVersion != "" {
		version = *crate.CrateVersion
	}
	crateInfo := crateName + " " + version

	parents := collectParents(&crate, crateName)
	rootID := strconv.Itoa(crate.Root)

	var entries []doc.Entry
	for id, item := range crate.Index {
		if item.CrateID != 0 {
			continue // local items only
		}
		e := convertItem(id, &item, &crate, crateName, crateInfo, parents, id == rootID)
		if e == nil {
			continue
		}
		entries = append(entries, *e)
	}

	// Map iteration order is random; the blob layout must be stable.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path.String() < entries[j].Path.String()
	})

	return &CrateDocs{Name: crateName, Version: version, Entries: entries}, nil
}

// collectParents walks impl blocks and trait definitions so their child
// items can be attributed to the owning type or trait.
func collectParents(crate *rustdocCrate, crateName string) map[string]parentInfo {
	parents := make(map[string]parentInfo)

	for id, item := range crate.Index {
		var outer map[string]json.RawMessage
		if err := json.Unmarshal(item.Inner, &outer); err != nil {
			continue
		}

		if implData, ok := outer["impl"]; ok {
			recordImplChildren(implData, crate, crateName, parents)
			continue
		}

		if traitData, ok := outer["trait"]; ok {
			path := itemPath(id, item.Name, crate, crateName)
			recordChildren(traitData, parents, parentInfo{
				path:    path,
				fnKind:  doc.FnMethodFromTrait,
				inTrait: true,
			})
		}
	}
	return parents
}

func recordImplChildren(implData json.RawMessage, crate *rustdocCrate, crateName string, parents map[string]parentInfo) {
	var impl struct {
		For   json.RawMessage `json:"for"`
		Trait json.RawMessage `json:"trait"`
		Items []int           `json:"items"`
	}
	if err := json.Unmarshal(implData, &impl); err != nil {
		return
	}

	path := implTargetPath(impl.For, crate, crateName)
	if path == nil {
		return
	}

	kind := doc.FnMethodFromImpl
	if len(impl.Trait) > 0 && string(impl.Trait) != "null" {
		kind = doc.FnMethodFromTrait
	}

	for _, child := range impl.Items {
		parents[strconv.Itoa(child)] = parentInfo{path: path, fnKind: kind}
	}
}

func recordChildren(data json.RawMessage, parents map[string]parentInfo, info parentInfo) {
	var t struct {
		Items []int `json:"items"`
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return
	}
	for _, child := range t.Items {
		parents[strconv.Itoa(child)] = info
	}
}

// implTargetPath resolves the `for` type of an impl to a module path.
func implTargetPath(forType json.RawMessage, crate *rustdocCrate, crateName string) doc.ModPath {
	var outer struct {
		ResolvedPath *struct {
			Name string `json:"name"`
			ID   int    `json:"id"`
		} `json:"resolved_path"`
	}
	if err := json.Unmarshal(forType, &outer); err != nil || outer.ResolvedPath == nil {
		return nil
	}

	if summary, ok := crate.Paths[strconv.Itoa(outer.ResolvedPath.ID)]; ok && len(summary.Path) > 0 {
		return doc.ModPath(summary.Path)
	}
	if outer.ResolvedPath.Name != "" {
		return doc.ModPath{crateName, outer.ResolvedPath.Name}
	}
	return nil
}

func itemPath(id string, name *string, crate *rustdocCrate, crateName string) doc.ModPath {
	if summary, ok := crate.Paths[id]; ok && len(summary.Path) > 0 {
		return doc.ModPath(summary.Path)
	}
	if name != nil {
		return doc.ModPath{crateName, *name}
	}
	return doc.ModPath{crateName}
}

func convertItem(id string, item *rustdocItem, crate *rustdocCrate, crateName, crateInfo string, parents map[string]parentInfo, isRoot bool) *doc.Entry {
	if item.Name == nil {
		return nil
	}
	name := *item.Name

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(item.Inner, &outer); err != nil {
		return nil
	}
	tag, payload, ok := innerKind(outer)
	if !ok {
		return nil
	}

	parent, nested := parents[id]

	path := itemPath(id, item.Name, crate, crateName)
	if nested {
		path = append(append(doc.ModPath{}, parent.path...), name)
	}

	var inner doc.Inner
	switch tag {
	case "module":
		inner = doc.Module{IsCrateRoot: isRoot || isCrateModule(payload)}
	case "function":
		sig := fnSignatureText(payload, crate)
		if nested && parent.inTrait {
			inner = doc.TraitItem{Item: doc.TraitMethod{Signature: sig}}
		} else {
			kind := doc.FnFree
			if nested {
				kind = parent.fnKind
			}
			inner = doc.Function{Signature: sig, Kind: kind}
		}
	case "struct":
		inner = doc.Struct{}
	case "enum":
		inner = doc.Enum{}
	case "trait":
		inner = doc.Trait{}
	case "constant":
		typ, expr := constantParts(payload, crate)
		inner = doc.Constant{Type: typ, Expr: expr}
	case "assoc_const":
		typ, expr := constantParts(payload, crate)
		inner = doc.TraitItem{Item: doc.TraitConst{Type: typ, Expr: expr}}
	case "assoc_type":
		inner = doc.TraitItem{Item: doc.TraitType{Type: assocTypeText(payload, crate)}}
	default:
		return nil // kinds without a display rule are skipped
	}

	var attrs []string
	if item.Docs != nil && *item.Docs != "" {
		attrs = strings.Split(*item.Docs, "\n")
	}

	return &doc.Entry{
		Path:       path,
		Name:       name,
		CrateInfo:  crateInfo,
		Visibility: visibilityText(item.Visibility),
		Inner:      inner,
		Attrs:      attrs,
	}
}

// innerKind unwraps the single-key variant envelope of an item's inner
// JSON.
func innerKind(outer map[string]json.RawMessage) (string, json.RawMessage, bool) {
	if len(outer) != 1 {
		return "", nil, false
	}
	for k, v := range outer {
		return k, v, true
	}
	return "", nil, false
}

func isCrateModule(moduleData json.RawMessage) bool {
	var m struct {
		IsCrate bool `json:"is_crate"`
	}
	if err := json.Unmarshal(moduleData, &m); err != nil {
		return false
	}
	return m.IsCrate
}

func visibilityText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "public":
			return "pub"
		case "crate":
			return "pub(crate)"
		}
		return ""
	}
	// Restricted visibilities appear as objects; collapse them.
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err == nil {
		if _, ok := outer["restricted"]; ok {
			return "pub(restricted)"
		}
	}
	return ""
}

func constantParts(payload json.RawMessage, crate *rustdocCrate) (string, string) {
	// The expression moved between rustdoc format versions: top-level
	// "expr", nested "const.expr", or "value" for associated constants.
	var c struct {
		Type  json.RawMessage `json:"type"`
		Expr  string          `json:"expr"`
		Value *string         `json:"value"`
		Const *struct {
			Expr string `json:"expr"`
		} `json:"const"`
	}
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", ""
	}

	expr := c.Expr
	if expr == "" && c.Const != nil {
		expr = c.Const.Expr
	}
	if expr == "" && c.Value != nil {
		expr = *c.Value
	}
	return plainTypeName(c.Type, crate), expr
}

func assocTypeText(payload json.RawMessage, crate *rustdocCrate) string {
	var a struct {
		Type    json.RawMessage `json:"type"`
		Default json.RawMessage `json:"default"`
	}
	if err := json.Unmarshal(payload, &a); err != nil {
		return ""
	}
	if t := plainTypeName(a.Type, crate); t != "" {
		return t
	}
	return plainTypeName(a.Default, crate)
}
