// Package engine schedules observation cycles. One cycle fetches a snapshot
// from the configured source and applies it to the store; a failed fetch is
// a skipped cycle, never a fault. The loop fires on a fixed period without
// backoff: the period itself is the retry mechanism.
package engine
