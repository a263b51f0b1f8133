package compiler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Parser accumulates one or more definition sources and compiles them
// into a single tree. Sub-tree references may span sources.
type Parser struct {
	blocks     map[string]*decisionAST
	order      []string
	rootName   string
	rootPos    pos
	forcedRoot string
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{blocks: make(map[string]*decisionAST)}
}

// SetRoot selects the root block by name, taking precedence over any
// root directive found in the definitions.
func (p *Parser) SetRoot(name string) {
	p.forcedRoot = name
}

// ParseFile reads one definition file into the parser.
func (p *Parser) ParseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open definition: %w", err)
	}
	defer f.Close()
	return p.Parse(f, path)
}

// Parse reads one definition source. The name is used in error
// positions only.
func (p *Parser) Parse(r io.Reader, name string) error {
	lines, err := scan(r, name)
	if err != nil {
		return err
	}

	i := 0
	for i < len(lines) {
		ln := lines[i]
		if ln.indent != 0 {
			return errAt(ln.pos, "unexpected indentation")
		}

		switch {
		case strings.HasPrefix(ln.text, "-->"):
			target := strings.TrimSpace(strings.TrimPrefix(ln.text, "-->"))
			if target == "" {
				return errAt(ln.pos, "root directive needs a block name")
			}
			if p.rootName != "" && p.rootName != target {
				return errAt(ln.pos, "root already declared as %q", p.rootName)
			}
			p.rootName = target
			p.rootPos = ln.pos
			i++

		case strings.HasPrefix(ln.text, "$"):
			blockName := strings.TrimSpace(strings.TrimPrefix(ln.text, "$"))
			if err := validName(blockName, ln.pos, "decision"); err != nil {
				return err
			}
			if _, dup := p.blocks[blockName]; dup {
				return errAt(ln.pos, "duplicate decision block %q", blockName)
			}
			branches, next, err := parseBranches(lines, i+1, 0)
			if err != nil {
				return err
			}
			if len(branches) == 0 {
				return errAt(ln.pos, "decision %q has no branches", blockName)
			}
			p.blocks[blockName] = &decisionAST{name: blockName, branches: branches, pos: ln.pos}
			p.order = append(p.order, blockName)
			i = next

		default:
			return errAt(ln.pos, "expected a decision block ($Name) or root directive (-->Name)")
		}
	}
	return nil
}

// Compile resolves sub-tree references across everything parsed so far
// and returns the finished, immutable tree.
func (p *Parser) Compile() (*domain.Tree, error) {
	if len(p.order) == 0 {
		return nil, &ParseError{File: "definition", Msg: "no decision blocks declared"}
	}

	rootName := p.forcedRoot
	if rootName == "" {
		rootName = p.rootName
	}
	if rootName == "" {
		rootName = p.order[0]
	}
	rootAST, ok := p.blocks[rootName]
	if !ok {
		return nil, errAt(p.rootPos, "root block %q not found", rootName)
	}

	c := &compileState{blocks: p.blocks, built: make(map[string]*domain.Decision), building: make(map[string]bool)}
	root, err := c.buildBlock(rootAST)
	if err != nil {
		return nil, err
	}

	// Blocks only reachable through references from other files still
	// need their own references checked, so build everything.
	for _, name := range p.order {
		if _, err := c.buildBlock(p.blocks[name]); err != nil {
			return nil, err
		}
	}

	return domain.NewTree(root), nil
}

// --- branch parsing ---

// parseBranches consumes the branch lines of a decision introduced at
// parentIndent. The first branch fixes the indentation level; siblings
// must match it exactly.
func parseBranches(lines []logicalLine, i, parentIndent int) ([]branchAST, int, error) {
	var branches []branchAST
	if i >= len(lines) || lines[i].indent <= parentIndent {
		return branches, i, nil
	}
	level := lines[i].indent
	seen := make(map[string]bool)

	for i < len(lines) {
		ln := lines[i]
		if ln.indent <= parentIndent {
			break
		}
		if ln.indent != level {
			return nil, 0, errAt(ln.pos, "inconsistent indentation")
		}

		label, targetStr, found := strings.Cut(ln.text, "-->")
		if !found {
			return nil, 0, errAt(ln.pos, "branch needs the form LABEL --> target")
		}
		label = strings.TrimSpace(label)
		targetStr = strings.TrimSpace(targetStr)
		if label == "" || strings.ContainsAny(label, " \t") {
			return nil, 0, errAt(ln.pos, "invalid branch label %q", label)
		}
		if seen[label] {
			return nil, 0, errAt(ln.pos, "duplicate branch label %q", label)
		}
		seen[label] = true

		var (
			target nodeAST
			err    error
		)
		switch {
		case strings.HasPrefix(targetStr, "$"):
			name := strings.TrimSpace(strings.TrimPrefix(targetStr, "$"))
			if err := validName(name, ln.pos, "decision"); err != nil {
				return nil, 0, err
			}
			var nested []branchAST
			nested, i, err = parseBranches(lines, i+1, level)
			if err != nil {
				return nil, 0, err
			}
			if len(nested) == 0 {
				return nil, 0, errAt(ln.pos, "decision %q has no branches", name)
			}
			target = &decisionAST{name: name, branches: nested, pos: ln.pos}

		case strings.HasPrefix(targetStr, "#"):
			name := strings.TrimSpace(strings.TrimPrefix(targetStr, "#"))
			if err := validName(name, ln.pos, "reference"); err != nil {
				return nil, 0, err
			}
			target = &refAST{name: name, pos: ln.pos}
			i++

		default:
			target, err = parseLeaf(targetStr, ln.pos)
			if err != nil {
				return nil, 0, err
			}
			i++
		}

		if _, isLeaf := target.(*decisionAST); !isLeaf {
			if i < len(lines) && lines[i].indent > level {
				return nil, 0, errAt(lines[i].pos, "unexpected indentation under a leaf branch")
			}
		}

		branches = append(branches, branchAST{label: label, target: target, pos: ln.pos})
	}
	return branches, i, nil
}

// parseLeaf parses an action or a comma-separated action sequence.
func parseLeaf(s string, at pos) (nodeAST, error) {
	parts := strings.Split(s, ",")
	actions := make([]*actionAST, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errAt(at, "empty sequence entry")
		}
		act, err := parseAction(part, at)
		if err != nil {
			return nil, err
		}
		actions = append(actions, act)
	}
	if len(actions) == 1 {
		return actions[0], nil
	}
	return &sequenceAST{actions: actions, pos: at}, nil
}

// parseAction parses "@Name" optionally followed by "+ key=value" groups.
func parseAction(s string, at pos) (*actionAST, error) {
	if !strings.HasPrefix(s, "@") {
		return nil, errAt(at, "expected an action (@Name), got %q", s)
	}
	segments := strings.Split(strings.TrimPrefix(s, "@"), "+")
	name := strings.TrimSpace(segments[0])
	if err := validName(name, at, "action"); err != nil {
		return nil, err
	}

	params := make(map[string]string)
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		key, value, found := strings.Cut(seg, "=")
		if !found {
			return nil, errAt(at, "parameter %q needs the form key=value", seg)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return nil, errAt(at, "parameter with empty key")
		}
		if _, dup := params[key]; dup {
			return nil, errAt(at, "duplicate parameter %q", key)
		}
		params[key] = value
	}
	return &actionAST{name: name, params: params, pos: at}, nil
}

func validName(name string, at pos, what string) error {
	if name == "" || strings.ContainsAny(name, " \t,+=$@#") {
		return errAt(at, "invalid %s name %q", what, name)
	}
	return nil
}

// --- line scanning ---

type pos struct {
	file string
	line int
}

type logicalLine struct {
	pos    pos
	indent int
	text   string
}

// scan strips comments and blank lines, keeping indentation widths.
func scan(r io.Reader, name string) ([]logicalLine, error) {
	var lines []logicalLine
	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		raw := sc.Text()
		if idx := strings.Index(raw, "//"); idx >= 0 {
			raw = raw[:idx]
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
		lines = append(lines, logicalLine{
			pos:    pos{file: name, line: num},
			indent: indent,
			text:   text,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", name, err)
	}
	return lines, nil
}
