package elev

import (
	"slices"

	"shaftsim/src/types"
)

// chooseDirection decides where a car heads next from its pending stops:
//  1. No stops: idle.
//  2. At or below the lowest stop: up. At or above the highest: down.
//  3. Stops on both sides: keep going, or head for the nearest stop if idle.
//  4. At a boundary of the reach set the car always turns away from it.
func chooseDirection(st CarState, reach []int) types.MotorDirection {
	if st.Idle() {
		return types.MD_Stop
	}
	var dir types.MotorDirection
	switch {
	case st.Floor <= st.LowestStop():
		dir = types.MD_Up
	case st.Floor >= st.HighestStop():
		dir = types.MD_Down
	case st.Dir != types.MD_Stop:
		dir = st.Dir
	default:
		dir = nearestDirection(st)
	}

	switch st.Floor {
	case reach[len(reach)-1]:
		return types.MD_Down
	case reach[0]:
		return types.MD_Up
	}
	return dir
}

func nearestDirection(st CarState) types.MotorDirection {
	above, below := stopAbove(st), stopBelow(st)
	switch {
	case above == nil && below == nil:
		return types.MD_Stop
	case below == nil:
		return types.MD_Up
	case above == nil:
		return types.MD_Down
	case *above-st.Floor <= st.Floor-*below:
		return types.MD_Up
	default:
		return types.MD_Down
	}
}

// stopAbove returns the closest stop strictly above the car.
func stopAbove(st CarState) *int {
	var best *int
	for floor := range st.Stops {
		if floor > st.Floor && (best == nil || floor < *best) {
			best = &floor
		}
	}
	return best
}

// stopBelow returns the closest stop strictly below the car.
func stopBelow(st CarState) *int {
	var best *int
	for floor := range st.Stops {
		if floor < st.Floor && (best == nil || floor > *best) {
			best = &floor
		}
	}
	return best
}

// nextStop picks the closest stop in the travel direction, counting the current floor.
// Without one it targets the next reachable floor in that direction.
func nextStop(st CarState, reach []int) int {
	if st.Stops[st.Floor] {
		return st.Floor
	}
	dir := st.Dir
	if dir == types.MD_Stop {
		dir = nearestDirection(st)
	}
	switch dir {
	case types.MD_Up:
		if above := stopAbove(st); above != nil {
			return *above
		}
	case types.MD_Down:
		if below := stopBelow(st); below != nil {
			return *below
		}
	default:
		return st.Floor
	}

	i, found := slices.BinarySearch(reach, st.Floor)
	if dir == types.MD_Up {
		if found {
			i++
		}
		if i < len(reach) {
			return reach[i]
		}
	} else if i > 0 {
		return reach[i-1]
	}
	return st.Floor
}
