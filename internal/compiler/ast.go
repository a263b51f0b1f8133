package compiler

import "github.com/aretw0/arbor/pkg/domain"

// The intermediate AST keeps source positions so reference resolution,
// which runs after all input is read, can still report file:line.

type nodeAST interface{ position() pos }

type actionAST struct {
	name   string
	params map[string]string
	pos    pos
}

type sequenceAST struct {
	actions []*actionAST
	pos     pos
}

type decisionAST struct {
	name     string
	branches []branchAST
	pos      pos
}

type branchAST struct {
	label  string
	target nodeAST
	pos    pos
}

type refAST struct {
	name string
	pos  pos
}

func (a *actionAST) position() pos   { return a.pos }
func (s *sequenceAST) position() pos { return s.pos }
func (d *decisionAST) position() pos { return d.pos }
func (r *refAST) position() pos      { return r.pos }

// compileState builds domain elements from the AST. Top-level blocks
// are memoized so that two references to the same block splice in the
// same decision element (sub-tree inclusion is a DAG, not a copy).
type compileState struct {
	blocks   map[string]*decisionAST
	built    map[string]*domain.Decision
	building map[string]bool
}

func (c *compileState) buildBlock(ast *decisionAST) (*domain.Decision, error) {
	if el, ok := c.built[ast.name]; ok {
		return el, nil
	}
	if c.building[ast.name] {
		return nil, errAt(ast.pos, "cyclic sub-tree inclusion through %q", ast.name)
	}
	c.building[ast.name] = true
	defer delete(c.building, ast.name)

	el, err := c.buildDecision(ast)
	if err != nil {
		return nil, err
	}
	c.built[ast.name] = el
	return el, nil
}

func (c *compileState) buildDecision(ast *decisionAST) (*domain.Decision, error) {
	el := domain.NewDecision(ast.name)
	for _, branch := range ast.branches {
		child, err := c.buildNode(branch.target)
		if err != nil {
			return nil, err
		}
		if !el.AddChild(branch.label, child) {
			return nil, errAt(branch.pos, "duplicate branch label %q", branch.label)
		}
	}
	return el, nil
}

func (c *compileState) buildNode(ast nodeAST) (domain.Element, error) {
	switch v := ast.(type) {
	case *actionAST:
		return domain.NewAction(v.name, v.params), nil
	case *sequenceAST:
		actions := make([]*domain.Action, len(v.actions))
		for i, a := range v.actions {
			actions[i] = domain.NewAction(a.name, a.params)
		}
		return domain.NewSequence(actions), nil
	case *decisionAST:
		return c.buildDecision(v)
	case *refAST:
		block, ok := c.blocks[v.name]
		if !ok {
			return nil, errAt(v.pos, "reference not found: %q", v.name)
		}
		return c.buildBlock(block)
	default:
		return nil, errAt(ast.position(), "unknown node kind")
	}
}
