package dispatcher

import (
	"shaftsim/src/elev"
	"shaftsim/src/topology"
	"shaftsim/src/types"
)

// predictCost estimates, in floors, the extra travel a car needs before it can serve order.
//   - stopped at the floor, idle or heading the call's way: 0, take it now
//   - the floor is already a stop: covered, no new stop needed
//   - heading the call's way with the floor ahead: the distance
//   - heading the call's way with the floor passed: finish the sweep, then a full span.
//     A moving car has already left its recorded floor, so that floor counts as passed.
//   - heading the other way: run to the terminal floor, then back to the call
//
// A car is assumed to always sweep to its terminal floor before reversing, even when
// its stops do not require it. This overestimates some costs and is kept as is.
func predictCost(st elev.CarState, order types.HallOrder, topo *topology.Topology) (int, verdict) {
	callDir := order.Button.Dir()
	if st.Floor == order.Floor && st.Behaviour != types.Moving && (st.Dir == types.MD_Stop || st.Dir == callDir) {
		return 0, immediate
	}
	if st.Stops[order.Floor] {
		return 0, covered
	}

	terminal := topo.Terminal(st.Label, st.Dir)
	switch st.Dir {
	case types.MD_Stop:
		return abs(order.Floor - st.Floor), costed
	case callDir:
		if ahead(st.Floor, order.Floor, st.Dir) {
			return abs(order.Floor - st.Floor), costed
		}
		return abs(terminal-st.Floor) + topo.Span(st.Label), costed
	default:
		return abs(terminal-st.Floor) + abs(terminal-order.Floor), costed
	}
}

func ahead(from, to int, dir types.MotorDirection) bool {
	if dir == types.MD_Up {
		return to > from
	}
	return to < from
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
