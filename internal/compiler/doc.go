/*
Package compiler parses textual behavior definitions into a domain.Tree.

# Grammar

A definition is a sequence of top-level decision blocks. Indentation is
significant: branches of a decision are indented deeper than the line
that introduced it. Comments start with "//" and run to the end of the
line; blank lines are ignored.

	-->MainDecision                  // optional root directive
	$MainDecision
	    IDLE --> @Wait
	    LOW_BATTERY --> $ChargeDecision
	        DOCKED --> @Charge
	        ROAMING --> @ReturnToDock + speed=0.2
	    PATROL --> @DriveToWaypoint, @ScanArea
	    FAULT --> #Recovery
	$Recovery
	    ...

Sigils:

  - "$Name" introduces a decision. At the top level it starts a named
    block; inside a branch it declares an inline nested decision whose
    branches follow on deeper-indented lines.
  - "@Name" names an action. Parameters are appended as "+ key=value"
    groups. A comma-separated list of actions forms a sequence.
  - "#Name" splices the root decision of another top-level block in
    place. References may point forward and across files; they are
    resolved once all input has been read.
  - "-->Name" at the top level selects the default root block. Without
    it the first block parsed is the root.

The compiler rejects duplicate branch labels, duplicate block names,
decisions without branches, empty sequence entries, unresolved or cyclic
references and inconsistent indentation, each with the offending
file:line position.
*/
package compiler
