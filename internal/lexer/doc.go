// Package lexer holds the pieces every language lexer is built from: a byte
// cursor, the embeddable Base state with checkpoints, a buffered lexer with
// lookahead and the TokenSource the parser reads through.
package lexer
