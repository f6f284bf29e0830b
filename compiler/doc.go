/*

Process of compilation

Abstract Syntax Tree (yaml document from the parsing stage) ->
	ast.Decode ->
Abstract Syntax Tree (ast) ->
	back.Compiler.CompileProgram ->
Assembly Text (mips) ->
	written to out.asm

Assembly Text ->
	sim.Load ->
Program ->
	sim.Machine.Run

*/
package compiler
