// Package symbols builds and serves the program-level symbol table: the
// set of declared functions and circuits with their signatures. The table
// is constructed by one pass over the program and is read-only afterward,
// so later passes can share it freely.
package symbols

import (
	"github.com/veridian-lang/veridian/internal/ast"
	"github.com/veridian-lang/veridian/internal/diagnostics"
	"github.com/veridian-lang/veridian/internal/position"
	"github.com/veridian-lang/veridian/internal/types"
)

// ParameterInfo is one resolved function parameter.
type ParameterInfo struct {
	Name  string
	Const bool
	Type  types.Type
}

// FunctionInfo is the resolved signature of a declared function.
type FunctionInfo struct {
	Name       string
	Span       position.Span
	Parameters []ParameterInfo
	// ReturnType is the unit tuple for functions with no annotation.
	ReturnType types.Type
}

// MemberInfo is one resolved circuit member.
type MemberInfo struct {
	Name string
	Type types.Type
}

// CircuitInfo is the resolved shape of a declared circuit.
type CircuitInfo struct {
	Name    string
	Span    position.Span
	Members []MemberInfo
}

// Member returns the member with the given name, or nil.
func (c *CircuitInfo) Member(name string) *MemberInfo {
	for i := range c.Members {
		if c.Members[i].Name == name {
			return &c.Members[i]
		}
	}
	return nil
}

// Table maps declaration names to their resolved signatures. Lookups on
// a built table are read-only and safe for concurrent use.
type Table struct {
	functions map[string]*FunctionInfo
	circuits  map[string]*CircuitInfo
}

// Function returns the signature of a declared function, or nil.
func (t *Table) Function(name string) *FunctionInfo {
	return t.functions[name]
}

// Circuit returns the shape of a declared circuit, or nil.
func (t *Table) Circuit(name string) *CircuitInfo {
	return t.circuits[name]
}

// builder populates a Table from declarations. It embeds the program
// defaults only to satisfy the pass convention; declaration headers are
// all it reads, so VisitProgram is fully overridden.
type builder struct {
	ast.ProgramDefaults
	handler *diagnostics.Handler
	table   *Table
}

// VisitProgram registers circuits first, so function signatures referring
// to circuit types resolve regardless of declaration order.
func (b *builder) VisitProgram(p *ast.Program) {
	for _, name := range p.CircuitOrder {
		b.registerCircuit(p.Circuits[name])
	}
	for _, name := range p.FunctionOrder {
		b.registerFunction(p.Functions[name])
	}
}

func (b *builder) registerCircuit(c *ast.Circuit) {
	info := &CircuitInfo{
		Name: c.Name.Name,
		Span: c.Span,
	}
	for _, m := range c.Members {
		if info.Member(m.Name.Name) != nil {
			b.handler.EmitError(diagnostics.CategoryRedefinition, m.Span,
				"member %q is declared more than once in circuit %q", m.Name.Name, c.Name.Name)
			continue
		}
		info.Members = append(info.Members, MemberInfo{
			Name: m.Name.Name,
			Type: b.resolveType(m.Type, c.Name.Name),
		})
	}
	b.table.circuits[info.Name] = info
}

func (b *builder) registerFunction(f *ast.Function) {
	info := &FunctionInfo{
		Name:       f.Name.Name,
		Span:       f.Span,
		ReturnType: types.Type{Kind: types.KindTuple},
	}
	seen := make(map[string]bool)
	for _, p := range f.Parameters {
		if seen[p.Name.Name] {
			b.handler.EmitError(diagnostics.CategoryRedefinition, p.Span,
				"parameter %q is declared more than once in function %q", p.Name.Name, f.Name.Name)
			continue
		}
		seen[p.Name.Name] = true
		info.Parameters = append(info.Parameters, ParameterInfo{
			Name:  p.Name.Name,
			Const: p.Const,
			Type:  b.resolveType(p.Type, ""),
		})
	}
	if f.ReturnType != nil {
		info.ReturnType = b.resolveType(*f.ReturnType, "")
	}
	b.table.functions[info.Name] = info
}

// resolveType converts an annotation, resolving Self against the
// enclosing circuit and checking circuit references against the table.
func (b *builder) resolveType(t ast.Type, selfCircuit string) types.Type {
	switch t.Kind {
	case ast.TypeSelf:
		if selfCircuit == "" {
			return types.Err
		}
		return types.CircuitNamed(selfCircuit)
	case ast.TypeArray:
		element := b.resolveType(*t.Element, selfCircuit)
		return types.Type{
			Kind:       types.KindArray,
			Element:    &element,
			Dimensions: t.Dimensions,
		}
	case ast.TypeTuple:
		components := make([]types.Type, len(t.Components))
		for i, c := range t.Components {
			components[i] = b.resolveType(c, selfCircuit)
		}
		return types.Type{Kind: types.KindTuple, Components: components}
	default:
		return types.FromAST(t)
	}
}

// Build runs the symbol collection pass. The returned table contains
// every declaration that resolved; the error is the last diagnostic when
// any declaration failed.
func Build(program *ast.Program, handler *diagnostics.Handler) (*Table, error) {
	b := &builder{
		handler: handler,
		table: &Table{
			functions: make(map[string]*FunctionInfo),
			circuits:  make(map[string]*CircuitInfo),
		},
	}
	b.Bind(b)
	b.VisitProgram(program)
	return b.table, handler.LastError()
}
