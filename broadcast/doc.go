// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package broadcast pushes periodic tally snapshots to live subscribers.
package broadcast
