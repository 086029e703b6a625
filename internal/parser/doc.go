// Package parser turns free-form array text into an ordered sequence of string
// tokens. It accepts JSON array syntax, comma-separated values and
// newline-separated values, and never loses precision on integer literals:
// every element is held as its exact source text.
package parser
