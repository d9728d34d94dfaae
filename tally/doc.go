// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally counts ballots per candidate.
//
// Results are ordered by votes, highest first, with ties in roster order.
// Every candidate appears, including those with no votes.
package tally
