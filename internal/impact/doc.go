// Package impact estimates the physical effects of an asteroid striking the
// Earth, following the Earth Impact Effects model of Collins, Melosh and
// Marcus (2005).
//
// An assessment runs a fixed chain of closed-form stages: energy, atmospheric
// entry, thermal radiation, cratering, seismic shaking, air blast and, for
// ocean impacts, the tsunami rim wave. The entry stage decides whether the
// body airbursts, and that decision selects the branches of every later
// stage; Assessment.Regimes records the choices made.
//
// The package performs no I/O and holds no mutable state. Assess is safe for
// concurrent use and returns identical results for identical input.
package impact
