// Package rules loads copy policies from YAML files.
//
// A rules file looks like:
//
//	version: "1"
//	execution:
//	  mode: parallel
//	  workers: 8
//	types:
//	  - match: "*cache.*"
//	    action: original
//	  - kind: chan
//	    action: null
//	slots:
//	  - owner: "model.Session"
//	    field: "conn*"
//	    action: skip
//	  - tag: secret
//	    action: null
//	keys:
//	  - "*model.Key"
//
// Globs follow github.com/tidwall/match: '*' matches any run of characters
// and '?' a single one. Every matcher set on a rule must match.
package rules
