/*
Package domain contains the state machine model produced by the crank compiler.

It is kept free of I/O: the compiler fills a Model from the DSL block of a host
file, the emitters and the runtime read it, and nothing persists it between runs.

# Key Entities

  - Model: states, events, transitions and per-state hooks in first-seen order.
  - Transition: one (from, to, event, guard, action) record.
  - Guard: a compound boolean condition canonicalized into a token list.
  - StateHooks: the mangled enter/do/exit function names of a state.
*/
package domain
