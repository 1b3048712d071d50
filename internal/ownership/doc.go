// Package ownership infers, per binding, whether the generated Rust needs a
// `mut` declaration.
//
// A binding is mutated when it is reassigned after its declaration, or when
// it is mutated in place: the receiver of a mutating method, the operand of
// mut_ref, or an argument bound to a `&mut T` parameter of a module function.
// A fresh `let` with the same name shadows instead and is never a mutation.
//
// The analysis is a forward walk in source order. It does not try to prove
// which branch runs: a mutation on any path (one match arm, one if branch,
// a loop or closure body that may run any number of times) marks the binding
// for every path, since the declaration has to accommodate all of them.
//
// Move counts and duplication sites are filled in later by package borrow;
// they live here so the whole per-binding verdict sits in one table.
package ownership
