// Package budget provides the ledger and goal-allocation engine of a personal
// budgeting application. It is designed as a local-first library: a UI, a
// command line tool or an HTTP API calls into it, and it never performs I/O by
// itself.
//
// The core functionalities include:
//   - Ledger Management: recording and removing income and expense records,
//     most recent first, and filtering them by calendar month.
//   - Budget Allocation: the fixed 50/30/20 split of income into Needs, Wants
//     and Savings, and the variance of actual spending against it.
//   - Savings Pool: a single balance, fed by the Savings share of income and
//     by Savings expenses, that never goes negative.
//   - Goals: savings goals funded from the pool, with progress and status.
//   - Trends: cumulative balance series bucketed by week, month or year and
//     projected on trailing windows (1M, 3M, 6M, 1Y, 5Y, All).
//
// A [Book] ties those components together under a single lock and is the
// entry point for collaborators. Its whole state can be captured as a
// [Snapshot] and encoded as JSONL.
package budget
