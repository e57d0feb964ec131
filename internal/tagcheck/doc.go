// Package tagcheck statically checks copy tags in Go source, so mistakes
// surface before the first clone instead of as errors during one.
package tagcheck
