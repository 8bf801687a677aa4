package elev

import (
	"github.com/tiendc/go-deepcopy"
)

// StartStateMgr starts the elevator state manager goroutine that serializes access to the elevator state.
func StartStateMgr(elevator *ElevState) *ElevStateMgr {
	elevMgr := &ElevStateMgr{
		Cmds: make(chan ElevStateCmd),
		quit: make(chan struct{}),
	}
	go func() {
		for {
			select {
			case cmd := <-elevMgr.Cmds:
				cmd.Exec(elevator)
				close(cmd.done)
			case <-elevMgr.quit:
				return
			}
		}
	}()
	return elevMgr
}

// Do runs fn against the elevator state and returns once it has finished.
// Calls from different goroutines never interleave.
func (elevMgr *ElevStateMgr) Do(fn func(elevator *ElevState)) {
	cmd := ElevStateCmd{Exec: fn, done: make(chan struct{})}
	select {
	case elevMgr.Cmds <- cmd:
	case <-elevMgr.quit:
		panic("elev: state manager stopped")
	}
	<-cmd.done
}

// GetState returns a deep copy of the public part of the elevator state.
func (elevMgr *ElevStateMgr) GetState() CarState {
	var snapshot CarState
	elevMgr.Do(func(elevator *ElevState) {
		if err := deepcopy.Copy(&snapshot, &elevator.CarState); err != nil {
			panic(err)
		}
	})
	return snapshot
}

// Stop ends the manager goroutine. The manager must not be used afterwards.
func (elevMgr *ElevStateMgr) Stop() {
	close(elevMgr.quit)
}
