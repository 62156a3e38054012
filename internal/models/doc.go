// Package models defines the core domain records for Splitr.
//
// # Records
//
//   - User: a registered account, identified externally by its UserCode
//   - Group: a set of members sharing expenses, owned by one user
//   - Invitation: a pending or accepted request for a user to join a group
//   - Expense: money one member paid on behalf of a set of participants
//   - Payment: money that has already changed hands between two members
//   - Ledger: the expenses and payments of one group, as a snapshot
//   - BalanceEdge: a derived statement that one user owes another
//
// # Conventions
//
//  1. Users are referenced by UserCode everywhere outside the auth layer.
//  2. Amounts are money.Cents; conversion from decimal input happens once, at ingestion.
//  3. Timestamps are Unix seconds.
//  4. Relationships are expressed with ID strings, never pointers.
package models
