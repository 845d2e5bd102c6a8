// Package remote invokes the certificate tool on the target host over a
// restricted SSH channel.
//
// Only two operations exist: "check" and "renew". The client never sends
// anything but these fixed selector strings; the remote account is
// expected to be locked down with a forced command (authorized_keys
// command="..." wrapper) that accepts exactly those selectors and rejects
// everything else with a nonzero exit. A rejected selector is therefore
// indistinguishable from any other failed remote command, which is the
// intended behavior.
//
// All remote output is captured and returned even on failure so the
// orchestrator can log it for audit. Both the connection and each command
// are bounded by timeouts: a hung session must never delay the window
// restoration pass.
package remote
