// Package sequence provides the live-editable nucleotide sequence and its
// undo history.
//
// Every mutating call (EditAt, DeleteAt, InsertAt) records exactly one
// snapshot of the full prior state, so Undo always steps back one user
// action. The history is bounded; when it is full the oldest snapshot is
// evicted.
//
// Invalid input is never fatal. Characters outside A/T/G/C are filtered or
// ignored and reported as Warnings on the returned Result. Only an invalid
// index on delete or edit is an error (ErrOutOfRange).
package sequence
