// Package config loads qcd's configuration.
//
// Layers, lowest precedence first:
//
//  1. embedded/defaults.toml compiled into the binary
//  2. the user config file (QCD_RS_CONFIG or $XDG_CONFIG_HOME/qcd/config.toml)
//  3. QCD_RS_DBPATH, QCD_RS_DBNAME and QCD_RS_SESSIONID
//  4. explicit overrides passed by the caller (command line flags, tests)
//
// The merged tree is decoded into Config and validated before use.
package config
