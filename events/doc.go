// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events publishes domain events after they have been committed.

	ballot.cast        a ballot was committed (election, candidate, ballot ids)
	election.deleted   an election and all its ballots were removed

Events never carry the voter's identity.

KafkaPublisher writes JSON messages keyed by election id. NopPublisher drops
everything and is used when no brokers are configured. Publishing is best
effort: a failure is logged and counted, never reported to the voter.
*/
package events
