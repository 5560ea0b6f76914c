// Package cpu implements the Intcode processor, its loader and its assembler.
//
// The processor owns a fixed-capacity memory of signed 64-bit cells and an
// instruction pointer (IP). Each instruction word packs an opcode in its two
// low decimal digits and one addressing mode per parameter in the digits
// above, read right to left. Parameters are either positional (an address to
// dereference) or immediate (the literal value). Destinations are always
// positional.
//
// Input and output are delegated to the Input and Output interfaces, so a
// processor can read from a fixed text buffer or block on another processor's
// output.
//
// The assembler provides a small mnemonic language for the instruction set,
// supporting labels, equates, raw data, and compile-time Starlark expressions.
package cpu
