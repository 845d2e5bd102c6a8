// Package gateway edits the two security controls on the gateway that
// guard inbound traffic: the geo-block filter and the inbound forward
// rule used for HTTP-01 challenges.
//
// Both controls are persisted in line-oriented files owned by the
// gateway's filtering engine. Their layouts are external contracts and
// must be preserved bit-for-bit apart from the single field being
// toggled:
//
// Geo-filter file, a single key=value line:
//
//	GEO_FILTER=on
//
// Forward-rule file, one comma-separated record per line with seven
// fixed fields:
//
//	enabled,kind,proto,wan-port,lan-addr,lan-port,remark
//	ON,dnat,tcp,80,192.168.10.21,80,letsencrypt-http
//
// Field 0 is the enabled state ("ON" or empty), field 1 the rule-kind
// tag, field 6 the operator-assigned remark. Only records whose kind is
// "dnat" (inbound destination translation) are eligible for toggling; a
// label that matches zero or multiple eligible records is a hard error
// so the wrong rule can never be touched.
//
// In this package Open and Closed describe the renewal window, not the
// individual controls: an Open window disables the geo filter (value
// "off") and enables the forward rule ("ON"); a Closed window restores
// the secure baseline. Toggles are idempotent: applying a state that is
// already in effect is a no-op success.
//
// Every write goes through a staging file in the target directory and an
// atomic rename, so a crash mid-edit leaves the original file intact.
// Edits only take effect after Commit, which runs the filtering engine's
// reload command.
package gateway
