package ast

import (
	"fmt"
	"strings"

	"github.com/veridian-lang/veridian/internal/position"
)

// Parameter represents one function parameter.
type Parameter struct {
	Span  position.Span
	Name  *Identifier
	Const bool
	Type  Type
}

// String returns the parameter's source spelling.
func (p *Parameter) String() string {
	if p.Const {
		return fmt.Sprintf("const %s: %s", p.Name, p.Type)
	}
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}

// Function represents a function declaration. It owns exactly one block.
type Function struct {
	Span       position.Span
	Name       *Identifier
	Parameters []*Parameter
	ReturnType *Type // nil when the function returns nothing
	Block      *Block
}

// GetSpan returns the source span of the declaration.
func (f *Function) GetSpan() position.Span { return f.Span }

// String returns the function header.
func (f *Function) String() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.String()
	}
	header := fmt.Sprintf("function %s(%s)", f.Name, strings.Join(params, ", "))
	if f.ReturnType != nil {
		header += " -> " + f.ReturnType.String()
	}
	return header
}

// CircuitMember is one field declaration inside a circuit.
type CircuitMember struct {
	Span position.Span
	Name *Identifier
	Type Type
}

// Circuit represents a circuit (record) type declaration.
type Circuit struct {
	Span    position.Span
	Name    *Identifier
	Members []*CircuitMember
}

// GetSpan returns the source span of the declaration.
func (c *Circuit) GetSpan() position.Span { return c.Span }

// Member returns the declared member with the given name, or nil.
func (c *Circuit) Member(name string) *CircuitMember {
	for _, m := range c.Members {
		if m.Name.Name == name {
			return m
		}
	}
	return nil
}

// String returns the circuit header.
func (c *Circuit) String() string { return "circuit " + c.Name.Name }

// Program is the root of the AST: a mapping from name to declaration.
// Names are unique; insertion order is preserved so that traversal and
// diagnostics stay deterministic.
type Program struct {
	Functions     map[string]*Function
	FunctionOrder []string
	Circuits      map[string]*Circuit
	CircuitOrder  []string
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{
		Functions: make(map[string]*Function),
		Circuits:  make(map[string]*Circuit),
	}
}

// AddFunction registers a function declaration. It reports whether the
// name was fresh; on collision the existing entry is kept.
func (p *Program) AddFunction(f *Function) bool {
	name := f.Name.Name
	if _, exists := p.Functions[name]; exists {
		return false
	}
	p.Functions[name] = f
	p.FunctionOrder = append(p.FunctionOrder, name)
	return true
}

// AddCircuit registers a circuit declaration. It reports whether the name
// was fresh; on collision the existing entry is kept.
func (p *Program) AddCircuit(c *Circuit) bool {
	name := c.Name.Name
	if _, exists := p.Circuits[name]; exists {
		return false
	}
	p.Circuits[name] = c
	p.CircuitOrder = append(p.CircuitOrder, name)
	return true
}
