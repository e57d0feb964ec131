// Package diagnostic holds structured findings produced while validating
// rule files: errors that block a run and warnings that do not.
package diagnostic
