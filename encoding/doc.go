// Package encoding turns rows of feature values into a framed stream of symbol bytes
// and back.
//
// # Stream Layout
//
// A stream starts with a single frame byte (0xFF). Each row follows as the symbol bytes
// of every feature in the encoder's traversal order, then one frame byte:
//
//	FF | s(f0) s(f1) ... s(fn) FF | s(f0) ... FF | ...
//
// Symbol bytes are slot indices within a segment and never exceed 253, so the frame
// byte is unambiguous. A feature contributes one byte, or more when its thresholds are
// split across segments.
//
// # Usage
//
//	tbl, _ := table.Build(set)
//	enc, _ := encoding.NewRowEncoder(tbl, order)
//	stream, _ := enc.EncodeFile(rows)
//
//	archive, _ := encoding.Pack(stream, format.CompressionZstd)
//
// A RowEncoder is safe for concurrent use. EncodeFileParallel produces the same bytes
// as EncodeFile.
package encoding
