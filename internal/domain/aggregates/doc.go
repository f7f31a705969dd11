// Package aggregates defines domain-facing aggregate contracts for course
// content and learner progress.
//
// Contracts avoid persistence and transport details. Each write method is a
// semantic boundary where tree or progress invariants are enforced atomically.
package aggregates
