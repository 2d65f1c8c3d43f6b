/*

Package ll reads the textual LLVM IR subset describing types and globals.

IR Text ->
	parse ->
Module (ast): typedefs, globals ->
	tp ->
Type layout: size, offsets

Function bodies are not parsed.
`declare`, `target`, `attributes` and metadata lines are skipped.

*/
package ll
