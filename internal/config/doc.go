// Package config manages the certgate application configuration stored
// in YAML format.
//
// Configuration lives at /etc/certgate/config.yaml by default and can be
// overridden with the --config flag. A missing file is not an error: the
// defaults describe a conventional gateway layout, so a freshly
// provisioned host runs without any config at all.
//
// Example config.yaml:
//
//	gateway:
//	  geo_filter_file: /etc/gateway/geo_filter.conf
//	  geo_filter_key: GEO_FILTER
//	  forward_rule_file: /etc/gateway/port_forward.conf
//	  reload_command: [filterctl, reload]
//	ssh:
//	  port: 22
//	  key_file: /root/.ssh/id_ed25519
//	  known_hosts_file: /root/.ssh/known_hosts
//	  connect_timeout_sec: 15
//	  command_timeout_sec: 300
//	renewal:
//	  threshold_days: 30
//	lock_file: /run/certgate.lock
//	audit_log: /var/log/certgate.log
//
// The two files under gateway: are external contracts owned by the
// gateway's filtering engine; certgate edits them in place but never
// defines their layout. See the gateway package for the formats.
package config
