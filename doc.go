// Package motionx declares the finite state machines behind animated
// surfaces.
//
// Every primitive (fade-in, page transition, hover feedback, ...) moves a
// surface between named visual states. A Chart lists the legal transitions,
// and NewMachine binds that chart to a descriptor, failing at construction
// when the descriptor is missing a state the chart can reach:
//
//	m, err := motionx.NewMachine(motionx.RevealChart(), desc)
//	if err != nil {
//		return err // *UndefinedStateError
//	}
//	step, ok := m.Send(motionx.EventShow) // hidden -> visible
//
// Subpackages supply the pieces that decide when to send events: the motion
// gate (gate), visibility triggers (viewport), trackers (tracker), sequencing
// (sequence) and swipe recognition (gesture). The primitive package composes
// them with the preset registry (preset).
package motionx
