// Package syntax implements the lossless syntax tree shared by every language.
//
// The tree has two layers. The green layer (GreenNode, GreenToken) is immutable,
// carries no positions and is structurally deduplicated through a NodeCache, so
// equal subtrees of one file or of a whole corpus share memory. The red layer
// (Node, Token) is a thin cursor over a green element that adds a parent pointer
// and an absolute offset; red handles are created on demand while navigating.
//
// Invariants kept by every tree built through this package:
//   - concatenating leading trivia, text and trailing trivia of every token in
//     document order reproduces the source byte for byte;
//   - bogus kinds are the only way unexpected tokens enter the tree;
//   - the last token of a root is the language's EOF token.
//
// Edits never mutate a tree in place. A BatchMutation records replacements
// against a root and Commit builds a new root, reusing every untouched green
// subtree, together with the TextEdit that turns the old text into the new one.
package syntax
