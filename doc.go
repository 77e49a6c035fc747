/*
Package crank keeps state machine code in sync with a diagram embedded in the
same Go file.

A host file carries a PlantUML-flavoured state diagram between @startuml and
@enduml lines, usually inside a block comment. Cranking the file parses the
diagram, regenerates the code between the signature banners and appends a stub
for every guard, action or hook the diagram references but the file does not
declare yet. Code outside the banners is never touched, so running crank twice
leaves the file unchanged.

# Diagram

	[*] --> Idle
	Idle --> Busy : EvWork [CanWork] / StartWork
	Busy --> Idle : EvDone
	Busy --> [*] : EvStop
	Busy : enter : Setup
	Busy : do : Work
	Busy : exit : Teardown

# Code styles

  - tabular: enum namespaces plus a dispatch.Tables value executed by pkg/dispatch.
  - switch: a self-contained StateEngine with one method per event.

A file keeps the style it was generated with; new files use the engine default.

# Usage

	eng := crank.New(crank.WithLogger(logger))
	for _, res := range eng.CrankAll(ctx, paths) {
		if res.Err != nil {
			log.Println(res.Path, res.Err)
		}
	}
*/
package crank
