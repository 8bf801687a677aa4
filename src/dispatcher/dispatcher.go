// Package dispatcher assigns every hall call to exactly one car.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"

	"shaftsim/src/elev"
	"shaftsim/src/ledger"
	"shaftsim/src/topology"
	"shaftsim/src/types"
)

type Dispatcher struct {
	topo   *topology.Topology
	ledger *ledger.Ledger
	cars   map[string]Car
}

// New requires one car per shaft in topo.
func New(topo *topology.Topology, l *ledger.Ledger, cars []Car) (*Dispatcher, error) {
	d := &Dispatcher{topo: topo, ledger: l, cars: make(map[string]Car, len(cars))}
	for _, car := range cars {
		d.cars[car.Label()] = car
	}
	for _, label := range topo.Labels() {
		if _, ok := d.cars[label]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingCar, label)
		}
	}
	return d, nil
}

// Run assigns calls published by the ledger until ctx is done. Assignments are made one
// at a time, so no two decisions race for the same car.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case order := <-d.ledger.Calls():
			if _, err := d.Assign(order); err != nil {
				slog.Error("Dispatch failed", "order", order, "err", err)
			}
		}
	}
}

// Assign picks a car for order:
//  1. Only cars reaching the floor are considered, narrowed to those that can deliver
//     someone waiting there when any can.
//  2. An idle car takes the call straight away.
//  3. A car standing at the floor takes it, and a car already stopping there covers it.
//  4. Otherwise the lowest predicted cost wins, ties going to the earlier shaft.
func (d *Dispatcher) Assign(order types.HallOrder) (Assignment, error) {
	labels := d.eligible(order)
	if len(labels) == 0 {
		return Assignment{Order: order}, fmt.Errorf("%w: %v", ErrNoEligibleCar, order)
	}

	snapshots := make([]elev.CarState, len(labels))
	for i, label := range labels {
		snapshots[i] = d.cars[label].Snapshot()
		if snapshots[i].Idle() {
			return d.commit(order, label, 0)
		}
	}

	best, lowestCost := -1, 0
	for i, st := range snapshots {
		cost, v := predictCost(st, order, d.topo)
		switch v {
		case immediate:
			return d.commit(order, labels[i], 0)
		case covered:
			slog.Debug("Order already covered", "order", order, "shaft", labels[i])
			return Assignment{Order: order, Shaft: labels[i], Covered: true}, nil
		}
		if best < 0 || cost < lowestCost {
			best, lowestCost = i, cost
		}
	}
	return d.commit(order, labels[best], lowestCost)
}

// eligible narrows the cars reaching the call's floor to those that can deliver someone
// waiting there, and falls back to plain floor reach when none can. This departs from a
// reach-only filter: an idle car that cannot deliver anyone no longer takes the call.
func (d *Dispatcher) eligible(order types.HallOrder) []string {
	labels := d.topo.Eligible(order.Floor)
	var serving []string
	for _, label := range labels {
		reaches := func(floor int) bool { return d.topo.Reaches(label, floor) }
		if d.ledger.HasEligible(order.Floor, order.Button, reaches) {
			serving = append(serving, label)
		}
	}
	if len(serving) > 0 {
		return serving
	}
	return labels
}

func (d *Dispatcher) commit(order types.HallOrder, label string, cost int) (Assignment, error) {
	if err := d.cars[label].AddStop(order.Floor); err != nil {
		return Assignment{Order: order}, err
	}
	slog.Debug("Assigning order to", "shaft", label, "order", order, "cost", cost)
	return Assignment{Order: order, Shaft: label, Cost: cost}, nil
}
