package elev

import (
	"testing"

	"shaftsim/src/types"
)

func stops(floors ...int) map[int]bool {
	m := map[int]bool{}
	for _, f := range floors {
		m[f] = true
	}
	return m
}

var reach0to10 = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

func TestChooseDirection(t *testing.T) {
	tests := []struct {
		name  string
		floor int
		dir   types.MotorDirection
		stops map[int]bool
		want  types.MotorDirection
	}{
		{"no stops", 4, types.MD_Up, stops(), types.MD_Stop},
		{"below all stops", 3, types.MD_Down, stops(5, 8), types.MD_Up},
		{"at lowest stop", 3, types.MD_Stop, stops(3, 8), types.MD_Up},
		{"above all stops", 9, types.MD_Up, stops(2, 5), types.MD_Down},
		{"between keeps up", 5, types.MD_Up, stops(2, 8), types.MD_Up},
		{"between keeps down", 5, types.MD_Down, stops(2, 8), types.MD_Down},
		{"between idle goes nearest", 5, types.MD_Stop, stops(4, 8), types.MD_Down},
		{"between idle tie goes up", 5, types.MD_Stop, stops(3, 7), types.MD_Up},
		{"top boundary", 10, types.MD_Up, stops(10), types.MD_Down},
		{"bottom boundary", 0, types.MD_Down, stops(0), types.MD_Up},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := CarState{Floor: tt.floor, Dir: tt.dir, Stops: tt.stops}
			if got := chooseDirection(st, reach0to10); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextStop(t *testing.T) {
	tests := []struct {
		name  string
		reach []int
		floor int
		dir   types.MotorDirection
		stops map[int]bool
		want  int
	}{
		{"closest above", reach0to10, 3, types.MD_Up, stops(1, 5, 8), 5},
		{"closest below", reach0to10, 6, types.MD_Down, stops(1, 5, 8), 5},
		{"current floor", reach0to10, 5, types.MD_Up, stops(5, 9), 5},
		{"none ahead steps one floor", reach0to10, 3, types.MD_Up, stops(1), 4},
		{"none ahead at boundary", reach0to10, 10, types.MD_Up, stops(1), 10},
		{"express step", []int{0, 5, 10}, 0, types.MD_Up, stops(), 5},
		{"idle picks nearest", reach0to10, 4, types.MD_Stop, stops(1, 6), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := CarState{Floor: tt.floor, Dir: tt.dir, Stops: tt.stops}
			if got := nextStop(st, tt.reach); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLowestHighestStop(t *testing.T) {
	st := CarState{Stops: stops(-1, 4, 9)}
	if st.LowestStop() != -1 || st.HighestStop() != 9 {
		t.Errorf("lowest %d highest %d", st.LowestStop(), st.HighestStop())
	}
}
