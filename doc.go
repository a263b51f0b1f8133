/*
Package arbor is a hierarchical behavior-arbitration engine for robotic
control: a textual definition describes a tree of decisions, actions and
action sequences, and a stack-based engine re-evaluates that tree every
control tick to select the single leaf behavior currently driving the
robot.

The engine remembers the active branch as an explicit stack, unwinds
exactly the stale part of the path when an upstream decision changes,
and re-initializes only the newly entered elements. Every tick it can
publish a complete snapshot of the stack; a decision-free replica
(package mirror) reconstructs an equivalent stack from those snapshots
for remote observation.

# Quick start

	tree, err := arbor.ParseFiles("behavior.tree")
	if err != nil { ... }

	reg := registry.New()
	reg.RegisterDecider("BatteryCheck", newBatteryCheck)
	reg.RegisterActor("Patrol", newPatrol)

	engine := arbor.New(tree, reg.Binder(blackboard))
	defer engine.Close()

	if err := engine.Start(ctx); err != nil { ... }
	for range time.Tick(tick) {
		if err := engine.Update(ctx, true); err != nil { ... }
	}

The definition grammar is documented in the internal compiler package;
a runnable integration demo lives under examples/patrol-bot.
*/
package arbor
