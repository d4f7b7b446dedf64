// Package dag orders named nodes by their dependencies.
//
// Nodes remember insertion order and every traversal uses it to break
// ties, so TopologicalOrder, Levels and FindCycle are deterministic for a
// given input. Cycles are reported as a *CycleError carrying one concrete
// cycle path.
package dag
