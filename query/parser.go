// Package query implements the textual probability query language: a small
// hand-written lexer and recursive-descent parser produce a Plan, which
// Executer runs against a network, its probability handler, and its
// interventions handle.
package query

import (
	"fmt"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/network"
)

// Plan is the parsed, name-resolved shape of one query.
type Plan struct {
	QueryNodes      []int
	QueryAssignment map[int]int

	ConditionNodes      []int
	ConditionAssignment map[int]int

	InterventionNodes      []int
	InterventionAssignment map[int]int

	ArgmaxNodes []int
}

type parser struct {
	net    *network.Network
	tokens []token
	pos    int
}

// Parse lexes and parses one query line against net, resolving every
// identifier to a node ID or value index as it goes so a typo surfaces
// immediately as errs.ErrNotFound rather than at execution time.
func Parse(net *network.Network, line string) (*Plan, error) {
	tokens, err := lex(line)
	if err != nil {
		return nil, err
	}
	p := &parser{net: net, tokens: tokens}
	return p.parseQuery()
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return token{}, fmt.Errorf("%w: expected %s, got %q", errs.ErrParse, what, t.text)
	}
	return p.advance(), nil
}

func (p *parser) parseQuery() (*Plan, error) {
	if _, err := p.expect(tokQMark, "'?'"); err != nil {
		return nil, err
	}

	plan := &Plan{
		QueryAssignment:        make(map[int]int),
		ConditionAssignment:    make(map[int]int),
		InterventionAssignment: make(map[int]int),
	}

	if p.peek().kind == tokIdent && p.peek().text == "argmax" {
		nodes, err := p.parseArgmax()
		if err != nil {
			return nil, err
		}
		plan.ArgmaxNodes = nodes
	} else {
		id, val, err := p.parseNodeEq()
		if err != nil {
			return nil, err
		}
		plan.QueryNodes = append(plan.QueryNodes, id)
		plan.QueryAssignment[id] = val
	}

	for p.peek().kind == tokPipe {
		p.advance()
		for {
			id, val, err := p.parseNodeEq()
			if err != nil {
				return nil, err
			}
			plan.ConditionNodes = append(plan.ConditionNodes, id)
			plan.ConditionAssignment[id] = val
			if p.peek().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}

	for p.peek().kind == tokBang {
		p.advance()
		if _, err := p.expectIdent("do"); err != nil {
			return nil, err
		}
		for {
			id, val, err := p.parseNodeEq()
			if err != nil {
				return nil, err
			}
			plan.InterventionNodes = append(plan.InterventionNodes, id)
			plan.InterventionAssignment[id] = val

			if p.peek().kind == tokIdent && p.peek().text == "do" {
				p.advance()
				continue
			}
			break
		}
	}

	if plan.ArgmaxNodes == nil && p.peek().kind == tokIdent && p.peek().text == "argmax" {
		nodes, err := p.parseArgmax()
		if err != nil {
			return nil, err
		}
		plan.ArgmaxNodes = nodes
	}

	if _, err := p.expect(tokEOF, "end of query"); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *parser) expectIdent(text string) (token, error) {
	t := p.peek()
	if t.kind != tokIdent || t.text != text {
		return token{}, fmt.Errorf("%w: expected %q, got %q", errs.ErrParse, text, t.text)
	}
	return p.advance(), nil
}

// parseNodeEq parses `ID '=' ID` and resolves it to a (nodeID, valueIndex)
// pair against the network.
func (p *parser) parseNodeEq() (int, int, error) {
	nameTok, err := p.expect(tokIdent, "node name")
	if err != nil {
		return 0, 0, err
	}
	if _, err := p.expect(tokEq, "'='"); err != nil {
		return 0, 0, err
	}
	valueTok, err := p.expect(tokIdent, "value name")
	if err != nil {
		return 0, 0, err
	}

	nodeID, err := p.net.GetIndex(nameTok.text)
	if err != nil {
		return 0, 0, err
	}
	n, err := p.net.Node(nodeID)
	if err != nil {
		return 0, 0, err
	}
	valueIdx, err := n.ValueIndex(valueTok.text)
	if err != nil {
		return 0, 0, err
	}
	return nodeID, valueIdx, nil
}

// parseArgmax parses `'argmax' '(' ID { ',' ID } ')'`.
func (p *parser) parseArgmax() ([]int, error) {
	if _, err := p.expectIdent("argmax"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var nodes []int
	for {
		nameTok, err := p.expect(tokIdent, "node name")
		if err != nil {
			return nil, err
		}
		id, err := p.net.GetIndex(nameTok.text)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, id)

		if p.peek().kind == tokComma {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return nodes, nil
}
