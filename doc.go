// Package tinybpe implements byte-pair-encoding tokenizers: learning a merge
// table from a corpus and using it to map text to token ids and back.
//
// Two variants share one API. ByteLevel treats the whole input as a single
// byte sequence; Regex first cuts the text into chunks with a split pattern
// (GPT-4 style by default) so merges never cross word and punctuation
// boundaries. Both support special tokens and persist to the tinyBPE/v1.0
// model format.
package tinybpe
