// Package scenario bundles ready-made simulation setups.
//
// A scenario owns a fully wired model plus the control knobs an external
// policy layer may drive while the simulation runs: OneLocation emulates a
// classic well-mixed SEIR model with a single adjustable infection rate, and
// TwoAges couples a young and an old household through daily visits whose
// infection rates and visit duration can be restricted independently.
//
// Control knobs take a restriction u in [0, 1]: 0 leaves the quantity at its
// configured value, 1 suppresses it entirely.
package scenario
