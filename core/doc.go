// Package core implements the PDF object model and the low-level file
// syntax: the lexer, the object parser, cross-reference tables and streams,
// object streams and stream filters.
//
// Objects are values of the sealed [Object] interface. Indirect references
// stay unresolved in parsed values; callers pass a [Resolver] wherever a
// value may be a reference:
//
//	font, ok := core.ResolveDict(resolver, resources.Get("Font"))
//
// # Cross-reference data
//
// [XRefParser.ParseAll] follows the /Prev chain of classic tables, xref
// streams and hybrid files and merges them so newer entries win.
// [XRefParser.Rebuild] recovers a table by scanning for object headers when
// the stored one is missing or broken.
//
// # Streams
//
// [Stream.Decode] applies the /Filter chain. FlateDecode, LZWDecode,
// ASCIIHexDecode, ASCII85Decode, RunLengthDecode and CCITTFaxDecode are
// decoded; DCT and JPX data is passed through for image decoders.
package core
