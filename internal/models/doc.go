// Package models defines the core domain models for duosplit.
//
// # Models
//
//   - Assignment: which party an item is attributed to (PersonA, PersonB or Shared)
//   - CandidateItem: a parsed or manually entered price not yet confirmed as a line item
//   - Region: a rectangle in native image pixels
//
// A bill is always split between exactly two named parties. Shared items are
// split 50/50; there is no partial-share weighting.
//
// # Design Principles
//
// 1. **Pure values**: models carry no behaviour beyond small helpers, so parsing and
// allocation stay pure functions over them
// 2. **Stable identity**: every CandidateItem gets a UUID that is unique for the
// lifetime of a bill session
// 3. **No persistence**: bills live only as long as the active session
package models
