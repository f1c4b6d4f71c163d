// Package feed implements the alert-feed observation source.
//
// Each configured feed is one GTFS-Realtime service alerts endpoint. Feeds
// are fetched in parallel and fail soft individually: a transport or decode
// failure degrades that feed to "no alerts" without aborting the others. An
// alert marks its informed routes delayed when its header text starts with
// the token "delays". The feed never reports recovery explicitly, so
// snapshots from this source carry uptime.PolicyAbsenceRecovers.
package feed
