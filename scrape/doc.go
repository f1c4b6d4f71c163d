// Package scrape implements the status-page observation source.
//
// The page is rendered in a headless browser and read through its
// accessibility tree rather than raw markup, which survives cosmetic
// redesigns. The flat node sequence is scanned for the "Service Status"
// heading; category headings below it group the line buttons that follow
// ("Delays" vs anything else). Unlike the alert feed, every sighted line
// carries an explicit judgment, so snapshots from this source use
// uptime.PolicyExplicitJudgment.
package scrape
