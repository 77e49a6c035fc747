/*
Package dispatch runs state machines described by transition tables.

A Machine owns its current state, an unbounded FIFO of events and the hook
tables. It is driven by one goroutine calling Run; other goroutines may only
Post events and flip the Start, Stop, Pause, Resume and Step controls.

Tables come either from code generated by crank (the tabular style) or from
Compile, which resolves the function names of a parsed model through a
registry at load time.

# Event processing

For the current state and an incoming event:

 1. No entry for the event: the event is ignored.
 2. A single Record whose guard returns false: ignored.
 3. Records are scanned in order; the first with no guard or a true guard wins.
 4. The current state's Exit hook runs, then the Action, then the state is
    assigned, then the new state's Enter hook runs and its Do hook is installed.

Once FinalState is reached no further lookups happen and Run returns.
*/
package dispatch
