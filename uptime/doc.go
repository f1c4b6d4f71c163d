// Package uptime holds the per-line accounting state and the reconcile
// algorithm that folds one observation cycle into it.
//
// The Store owns every LineRecord. All mutation goes through Apply, which
// advances each line's time accounting to "now" and merges the cycle's
// judgments under the snapshot's attribution policy. Readers (Lines, Status,
// Uptime) may run at any time, including mid-cycle, and always observe a
// consistent record.
package uptime
