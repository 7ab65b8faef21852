// Package filters implements the PDF stream decoding filters.
//
// Each filter takes the encoded bytes and a [Params] map built from the
// stream's /DecodeParms dictionary:
//
//	decoded, err := filters.FlateDecode(data, filters.Params{"Predictor": 12, "Columns": 5})
//
// Supported filters are FlateDecode and LZWDecode (both with PNG and TIFF
// predictors), ASCIIHexDecode, ASCII85Decode, RunLengthDecode and
// CCITTFaxDecode. Image codecs such as DCTDecode are left to image decoders.
package filters
