package contentstream

import (
	"bytes"

	"github.com/tsawler/pdftext/core"
)

var inlineKeys = map[string]string{
	"BPC": "BitsPerComponent",
	"CS":  "ColorSpace",
	"D":   "Decode",
	"DP":  "DecodeParms",
	"F":   "Filter",
	"H":   "Height",
	"IM":  "ImageMask",
	"I":   "Interpolate",
	"L":   "Length",
	"W":   "Width",
}

var inlineNames = map[string]string{
	"G":    "DeviceGray",
	"RGB":  "DeviceRGB",
	"CMYK": "DeviceCMYK",
	"I":    "Indexed",
	"AHx":  "ASCIIHexDecode",
	"A85":  "ASCII85Decode",
	"LZW":  "LZWDecode",
	"Fl":   "FlateDecode",
	"RL":   "RunLengthDecode",
	"CCF":  "CCITTFaxDecode",
	"DCT":  "DCTDecode",
}

func expandName(obj core.Object) core.Object {
	switch v := obj.(type) {
	case core.Name:
		if full, ok := inlineNames[string(v)]; ok {
			return core.Name(full)
		}
	case core.Array:
		out := make(core.Array, len(v))
		for i, e := range v {
			out[i] = expandName(e)
		}
		return out
	}
	return obj
}

// readInlineImage reads the dictionary after BI, the ID keyword, the
// image data and the closing EI.
func (p *Parser) readInlineImage() (*InlineImage, bool) {
	dict := core.Dict{}
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			return nil, false
		}
		c := p.data[p.pos]
		if c == '/' {
			key := string(p.readName().(core.Name))
			p.skipSpaceAndComments()
			if p.pos >= len(p.data) {
				return nil, false
			}
			v, ok := p.readValue()
			if !ok {
				continue
			}
			if full, ok := inlineKeys[key]; ok {
				key = full
			}
			if key == "ColorSpace" || key == "Filter" {
				v = expandName(v)
			}
			dict[key] = v
			continue
		}
		if isRegular(c) && p.readRegular() == "ID" {
			break
		}
		if !isRegular(c) {
			p.pos++
		}
	}

	// A single whitespace byte separates ID from the data.
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}

	data, ok := p.readInlineData(dict)
	if !ok {
		return nil, false
	}
	return &InlineImage{Dict: dict, Data: data}, true
}

// readInlineData uses the exact size of an unfiltered image when it is
// known and otherwise scans for EI delimited by whitespace.
func (p *Parser) readInlineData(dict core.Dict) ([]byte, bool) {
	if n := unfilteredLength(dict); n > 0 && p.pos+n <= len(p.data) {
		end := p.pos + n
		rest := p.data[end:]
		trimmed := bytes.TrimLeft(rest, " \t\r\n\f\x00")
		if bytes.HasPrefix(trimmed, []byte("EI")) && (len(trimmed) == 2 || !isRegular(trimmed[2])) {
			data := p.data[p.pos:end]
			p.pos = end + (len(rest) - len(trimmed)) + 2
			return data, true
		}
	}

	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		if i > p.pos && !isWhitespace(p.data[i-1]) {
			continue
		}
		if i+2 < len(p.data) && !isWhitespace(p.data[i+2]) {
			continue
		}
		end := i
		if end > p.pos && isWhitespace(p.data[end-1]) {
			end--
		}
		data := p.data[p.pos:end]
		p.pos = i + 2
		return data, true
	}
	return nil, false
}

func unfilteredLength(dict core.Dict) int {
	if dict.Has("Filter") {
		return 0
	}
	w, _ := dict.GetInt("Width")
	h, _ := dict.GetInt("Height")
	bpc, ok := dict.GetInt("BitsPerComponent")
	if !ok {
		bpc = 1
	}
	comps := 1
	if mask, _ := dict.GetBool("ImageMask"); !mask {
		switch cs, _ := dict.GetName("ColorSpace"); cs {
		case "DeviceGray", "Indexed":
			comps = 1
		case "DeviceRGB":
			comps = 3
		case "DeviceCMYK":
			comps = 4
		default:
			return 0
		}
	}
	return (int(w)*comps*int(bpc) + 7) / 8 * int(h)
}
