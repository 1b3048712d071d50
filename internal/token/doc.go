// Package token defines the lexical vocabulary of the highrust sugar dialect.
package token
