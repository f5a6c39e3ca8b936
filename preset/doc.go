// Package preset is the table of animation descriptors: named mappings from
// visual state to target property values plus timing.
//
// Lookups are pure. An unknown name fails with *UnknownPresetError, and a
// descriptor missing a state a primitive needs is rejected when the
// primitive's machine is built (see motionx.NewMachine). Timing uses either
// cubic-bezier control points or spring parameters; Transition.Curve hides
// which one a descriptor picked.
package preset
