// Package utils provides text helpers shared by the index converters:
// HTML stripping, whitespace normalization and rune-safe truncation.
package utils
