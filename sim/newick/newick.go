// Package newick serializes trees to and from the Newick text format.
//
// Serialization is an optional result-export format only — trees move between
// workers and the coordinator as owned values, never as strings.
package newick

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/treesim/treesim/sim"
)

// Write renders a tree as a Newick string, terminated by a semicolon.
func Write(t *sim.Tree) string {
	if t == nil || t.Root == nil {
		return ";"
	}
	var b strings.Builder
	writeNode(&b, t.Root)
	b.WriteByte(';')
	return b.String()
}

// WriteAll renders every tree of a sample result, one Newick string per tree.
func WriteAll(res *sim.SampleResult) []string {
	if res == nil {
		return nil
	}
	out := make([]string, len(res.Trees))
	for i, t := range res.Trees {
		out[i] = Write(t)
	}
	return out
}

func writeNode(b *strings.Builder, n *sim.Node) {
	if !n.IsTip() {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, c)
		}
		b.WriteByte(')')
	}
	b.WriteString(n.Name)
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(n.Length, 'f', -1, 64))
}

// Parse reads a single Newick string into a tree. Only the subset emitted by
// Write is supported: plain unquoted labels and decimal branch lengths, both
// optional.
func Parse(s string) (*sim.Tree, error) {
	p := &parser{input: strings.TrimSpace(s)}
	root, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if !p.consume(';') {
		return nil, fmt.Errorf("newick: missing terminating semicolon at offset %d", p.pos)
	}
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("newick: trailing content at offset %d", p.pos)
	}
	return &sim.Tree{Root: root}, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseNode() (*sim.Node, error) {
	n := &sim.Node{}
	if p.consume('(') {
		for {
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			child.Parent = n
			n.Children = append(n.Children, child)
			if p.consume(',') {
				continue
			}
			break
		}
		if !p.consume(')') {
			return nil, fmt.Errorf("newick: unbalanced parentheses at offset %d", p.pos)
		}
	}
	n.Name = p.parseLabel()
	if p.consume(':') {
		length, err := p.parseLength()
		if err != nil {
			return nil, err
		}
		n.Length = length
	}
	return n, nil
}

func (p *parser) parseLabel() string {
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("():,;", rune(p.input[p.pos])) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseLength() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("():,;", rune(p.input[p.pos])) {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("newick: bad branch length %q at offset %d: %w", p.input[start:p.pos], start, err)
	}
	return v, nil
}
