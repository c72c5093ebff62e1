// Package fixtures builds small, fully specified networks used across the
// engine's test suites, adapted from the classic Koller & Friedman "Student"
// and "ALARM" examples.
package fixtures

import (
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/node"
)

// Student builds the five-variable Student network: Difficulty and
// Intelligence are independent root causes of Grade, which in turn causes
// Letter; Intelligence alone also causes SAT.
func Student() (*network.Network, error) {
	net := network.New()

	difficulty := node.New(0, "Difficulty")
	if err := difficulty.SetValueNames([]string{"d0", "d1"}); err != nil {
		return nil, err
	}
	if err := difficulty.SetParents(nil, nil); err != nil {
		return nil, err
	}
	difficultyID, err := net.AddNode(difficulty)
	if err != nil {
		return nil, err
	}
	setRow(difficulty, 0, 0.6, 0.4)

	intelligence := node.New(0, "Intelligence")
	if err := intelligence.SetValueNames([]string{"i0", "i1"}); err != nil {
		return nil, err
	}
	if err := intelligence.SetParents(nil, nil); err != nil {
		return nil, err
	}
	intelligenceID, err := net.AddNode(intelligence)
	if err != nil {
		return nil, err
	}
	setRow(intelligence, 0, 0.7, 0.3)

	grade := node.New(0, "Grade")
	if err := grade.SetValueNames([]string{"g1", "g2", "g3"}); err != nil {
		return nil, err
	}
	gradeID, err := net.AddNode(grade)
	if err != nil {
		return nil, err
	}
	if err := net.AddEdge(difficultyID, gradeID); err != nil {
		return nil, err
	}
	if err := net.AddEdge(intelligenceID, gradeID); err != nil {
		return nil, err
	}
	// rows ordered Difficulty*2 + Intelligence, matching AddEdge order above.
	setRow(grade, 0, 0.3, 0.4, 0.3)  // d0,i0
	setRow(grade, 1, 0.05, 0.25, 0.7) // d0,i1
	setRow(grade, 2, 0.9, 0.08, 0.02) // d1,i0
	setRow(grade, 3, 0.5, 0.3, 0.2)   // d1,i1

	sat := node.New(0, "SAT")
	if err := sat.SetValueNames([]string{"s0", "s1"}); err != nil {
		return nil, err
	}
	satID, err := net.AddNode(sat)
	if err != nil {
		return nil, err
	}
	if err := net.AddEdge(intelligenceID, satID); err != nil {
		return nil, err
	}
	setRow(sat, 0, 0.95, 0.05) // i0
	setRow(sat, 1, 0.2, 0.8)   // i1

	letter := node.New(0, "Letter")
	if err := letter.SetValueNames([]string{"l0", "l1"}); err != nil {
		return nil, err
	}
	letterID, err := net.AddNode(letter)
	if err != nil {
		return nil, err
	}
	if err := net.AddEdge(gradeID, letterID); err != nil {
		return nil, err
	}
	setRow(letter, 0, 0.1, 0.9)   // g1
	setRow(letter, 1, 0.4, 0.6)   // g2
	setRow(letter, 2, 0.99, 0.01) // g3

	return net, nil
}

func setRow(n *node.Node, row int, values ...float64) {
	for col, v := range values {
		n.ProbabilityMatrix.Set(row, col, v)
	}
}
