package core

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdftext/internal/filters"
)

// ErrUnsupportedFilter is returned for filters this package cannot decode.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// Decode returns the stream data with every /Filter applied in order. The
// result is cached. Filter and DecodeParms entries must be direct objects;
// use DecodeWith when they may be references.
func (s *Stream) Decode() ([]byte, error) {
	return s.DecodeWith(NoResolver)
}

// DecodeWith is Decode with indirect /Filter and /DecodeParms values
// resolved through r.
func (s *Stream) DecodeWith(r Resolver) ([]byte, error) {
	if s.decoded != nil {
		return s.decoded, nil
	}
	names, params, err := s.filterChain(r)
	if err != nil {
		return nil, err
	}

	data := s.Data
	for i, name := range names {
		data, err = decodeWithFilter(data, name, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	s.decoded = data
	return data, nil
}

// Filters returns the filter names of the stream in application order.
func (s *Stream) Filters() []string {
	names, _, _ := s.filterChain(NoResolver)
	return names
}

func (s *Stream) filterChain(r Resolver) ([]string, []filters.Params, error) {
	filterObj, err := r.Resolve(s.Dict.Get("Filter"))
	if err != nil {
		return nil, nil, err
	}
	parmsObj, err := r.Resolve(s.Dict.Get("DecodeParms"))
	if err != nil {
		return nil, nil, err
	}

	var names []string
	switch f := filterObj.(type) {
	case nil, Null:
		return nil, nil, nil
	case Name:
		names = []string{string(f)}
	case Array:
		for i, v := range f {
			n, ok := v.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is %T, not a name", i, v)
			}
			names = append(names, string(n))
		}
	default:
		return nil, nil, fmt.Errorf("invalid /Filter type %T", filterObj)
	}

	params := make([]filters.Params, len(names))
	for i := range names {
		var p Object = parmsObj
		if arr, ok := parmsObj.(Array); ok {
			p = arr.Get(i)
		}
		d, _ := ResolveDict(r, p)
		params[i] = dictToParams(d)
	}
	return names, params, nil
}

func decodeWithFilter(data []byte, name string, params filters.Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, params)
	case "LZWDecode", "LZW":
		return filters.LZWDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return filters.RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode":
		// image codecs; left for the image consumer
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
}

// dictToParams converts decode parameters to Go primitives.
func dictToParams(d Dict) filters.Params {
	if d == nil {
		return nil
	}
	params := make(filters.Params, len(d))
	for k, v := range d {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		}
	}
	return params
}
