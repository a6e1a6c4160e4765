// Package governance is the voting core of the cooperadora treasury.
//
// A Registry owns the member set, an arena of ProposalState records addressed
// by monotonically increasing ids, and the authority to disburse treasury
// funds once a proposal is approved. Every mutation goes through the
// Registry's write lock, so the ledger is applied one operation at a time in
// a single total order; reads share a read lock.
//
// Proposal status is computed lazily from the stored tally and the wall
// clock: a proposal whose deadline has passed is Approved, Rejected or
// Expired without anything having to flip a flag. Finalize persists that
// computed status, and Execute moves an Approved proposal to Executed after
// the treasury transfer succeeds.
package governance
