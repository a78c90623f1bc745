// Package doc defines the documentation entry model: one record per
// documented source item, produced by the extractor, stored in the
// documentation store, and consumed by the formatter.
package doc

import "strings"

// ModPath is the ordered module/type path locating an item, e.g.
// ["mycrate", "Foo", "bar"] for mycrate::Foo::bar.
type ModPath []string

func (p ModPath) String() string {
	return strings.Join(p, "::")
}

// Parent returns the path with its last segment removed. The second
// return is false when the path has no parent.
func (p ModPath) Parent() (ModPath, bool) {
	if len(p) < 2 {
		return nil, false
	}
	return p[:len(p)-1], true
}

// Name returns the final path segment.
func (p ModPath) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Entry is one documented source item. Exactly one Inner variant is set;
// entries are built once per query result and never mutated.
type Entry struct {
	Path       ModPath
	Name       string
	CrateInfo  string
	Visibility string // "" when the item carries no visibility qualifier
	Inner      Inner
	Attrs      []string // doc-comment lines, order preserved verbatim
}

// Inner is the closed set of per-kind payloads. Consumers dispatch with
// an exhaustive type switch; an unhandled variant is a programming error
// and panics rather than rendering garbage.
type Inner interface{ inner() }

// FnKind records how a function came to exist at its path.
type FnKind string

const (
	FnFree            FnKind = "free"
	FnMethodFromImpl  FnKind = "method_from_impl"
	FnMethodFromTrait FnKind = "method_from_trait"
)

// Function covers free functions and methods.
type Function struct {
	Signature string // parameter/return text, e.g. "(x: i32) -> i32"
	Kind      FnKind
}

type Struct struct{}

type Enum struct{}

type Constant struct {
	Type string
	Expr string
}

type Trait struct{}

// TraitItem is an associated item seen through its defining trait.
type TraitItem struct {
	Item TraitItemKind
}

// TraitItemKind is the closed sub-variant set for trait items.
type TraitItemKind interface{ traitItemKind() }

type TraitConst struct {
	Type string
	Expr string // "" when the trait declares no default value
}

type TraitMethod struct {
	Signature string
}

type TraitType struct {
	Type string // "" when the trait leaves the type unbound
}

type TraitMacro struct {
	Body string
}

// Module covers both plain modules and crate roots.
type Module struct {
	IsCrateRoot bool
}

func (Function) inner()  {}
func (Struct) inner()    {}
func (Enum) inner()      {}
func (Constant) inner()  {}
func (Trait) inner()     {}
func (TraitItem) inner() {}
func (Module) inner()    {}

func (TraitConst) traitItemKind()  {}
func (TraitMethod) traitItemKind() {}
func (TraitType) traitItemKind()   {}
func (TraitMacro) traitItemKind()  {}
