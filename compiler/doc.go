/*

Process of compilation

Program Text ->
	lex ->
Token Stream ->
	build ->
Structured IR (Seq/If/Loop over Blocks over pure nodes) ->
	optimize (peel, addloop, copyprop) ->
Optimized IR ->
	pretty ->
IR Text Dump

*/
package compiler
