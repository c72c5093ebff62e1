package fixtures

import (
	"github.com/causaltrail-go/engine/network"
	"github.com/causaltrail-go/engine/node"
)

// Alarm builds the classic five-variable ALARM excerpt: Burglary and
// Earthquake independently cause Alarm, which in turn causes JohnCalls and
// MaryCalls.
func Alarm() (*network.Network, error) {
	net := network.New()

	burglary := node.New(0, "Burglary")
	if err := burglary.SetValueNames([]string{"no", "yes"}); err != nil {
		return nil, err
	}
	if err := burglary.SetParents(nil, nil); err != nil {
		return nil, err
	}
	burglaryID, err := net.AddNode(burglary)
	if err != nil {
		return nil, err
	}
	setRow(burglary, 0, 0.999, 0.001)

	earthquake := node.New(0, "Earthquake")
	if err := earthquake.SetValueNames([]string{"no", "yes"}); err != nil {
		return nil, err
	}
	if err := earthquake.SetParents(nil, nil); err != nil {
		return nil, err
	}
	earthquakeID, err := net.AddNode(earthquake)
	if err != nil {
		return nil, err
	}
	setRow(earthquake, 0, 0.998, 0.002)

	alarm := node.New(0, "Alarm")
	if err := alarm.SetValueNames([]string{"no", "yes"}); err != nil {
		return nil, err
	}
	alarmID, err := net.AddNode(alarm)
	if err != nil {
		return nil, err
	}
	if err := net.AddEdge(burglaryID, alarmID); err != nil {
		return nil, err
	}
	if err := net.AddEdge(earthquakeID, alarmID); err != nil {
		return nil, err
	}
	setRow(alarm, 0, 0.999, 0.001) // b=no,  e=no
	setRow(alarm, 1, 0.71, 0.29)   // b=no,  e=yes
	setRow(alarm, 2, 0.06, 0.94)   // b=yes, e=no
	setRow(alarm, 3, 0.05, 0.95)   // b=yes, e=yes

	john := node.New(0, "JohnCalls")
	if err := john.SetValueNames([]string{"no", "yes"}); err != nil {
		return nil, err
	}
	johnID, err := net.AddNode(john)
	if err != nil {
		return nil, err
	}
	if err := net.AddEdge(alarmID, johnID); err != nil {
		return nil, err
	}
	setRow(john, 0, 0.95, 0.05)
	setRow(john, 1, 0.1, 0.9)

	mary := node.New(0, "MaryCalls")
	if err := mary.SetValueNames([]string{"no", "yes"}); err != nil {
		return nil, err
	}
	maryID, err := net.AddNode(mary)
	if err != nil {
		return nil, err
	}
	if err := net.AddEdge(alarmID, maryID); err != nil {
		return nil, err
	}
	setRow(mary, 0, 0.99, 0.01)
	setRow(mary, 1, 0.3, 0.7)

	return net, nil
}
