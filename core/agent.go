package core

// Agent is the contract between the scheduler and every simulated entity.
//
// The scheduler activates all agents "simultaneously" by splitting each tick
// into two strictly ordered passes:
//
//  1. Step, the evaluation phase. An agent inspects the world as it stood at
//     the start of the tick and updates its own internal state (a location
//     draws new exposures from its co-present crowd, a person advances its
//     disease timeline). No agent changes where anybody is during this pass.
//  2. Advance, the movement phase. An agent applies its staged movement (a
//     person resolves its itinerary and relocates). The pass begins only
//     after Step has completed for every registered agent, so no evaluation
//     ever observes a partially moved population.
//
// Implementations must not spawn goroutines or block; a tick is synchronous
// and deterministic given the model's RNG stream.
type Agent interface {
	// Step runs the evaluation phase against the pre-tick snapshot.
	Step()
	// Advance runs the movement phase. Agents without movement semantics
	// implement it as a no-op.
	Advance()
}
