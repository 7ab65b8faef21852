package core

import (
	"bytes"
	"fmt"
)

// ObjectStream gives access to the objects packed in a /Type /ObjStm stream.
// The stream is decoded lazily on first access and parsed objects are
// cached.
type ObjectStream struct {
	stream  *Stream
	n       int
	first   int
	decoded []byte
	numbers []int
	offsets []int
	cache   map[int]Object
}

// NewObjectStream validates the stream dictionary.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("object stream is nil")
	}
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream (type %q)", t)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First")
	}
	return &ObjectStream{
		stream: stream,
		n:      int(n),
		first:  int(first),
		cache:  make(map[int]Object),
	}, nil
}

// N returns the number of objects declared by the stream.
func (s *ObjectStream) N() int { return s.n }

func (s *ObjectStream) load() error {
	if s.decoded != nil {
		return nil
	}
	data, err := s.stream.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode object stream: %w", err)
	}
	if s.first > len(data) {
		return fmt.Errorf("object stream /First %d beyond data length %d", s.first, len(data))
	}

	p := NewParser(bytes.NewReader(data[:s.first]))
	for i := 0; i < s.n; i++ {
		num, err1 := p.ParseObject()
		off, err2 := p.ParseObject()
		n, ok1 := num.(Int)
		o, ok2 := off.(Int)
		if err1 != nil || err2 != nil || !ok1 || !ok2 {
			return fmt.Errorf("object stream header entry %d is malformed", i)
		}
		s.numbers = append(s.numbers, int(n))
		s.offsets = append(s.offsets, int(o))
	}
	s.decoded = data
	return nil
}

// ObjectAt returns the object at position index and its object number.
func (s *ObjectStream) ObjectAt(index int) (Object, int, error) {
	if err := s.load(); err != nil {
		return nil, 0, err
	}
	if index < 0 || index >= len(s.offsets) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(s.offsets))
	}
	if obj, ok := s.cache[index]; ok {
		return obj, s.numbers[index], nil
	}

	start := s.first + s.offsets[index]
	end := len(s.decoded)
	if index+1 < len(s.offsets) {
		end = s.first + s.offsets[index+1]
	}
	if start >= len(s.decoded) || end > len(s.decoded) || start > end {
		return nil, 0, fmt.Errorf("object %d has invalid offset %d", s.numbers[index], start)
	}

	obj, err := NewParser(bytes.NewReader(s.decoded[start:end])).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object %d: %w", s.numbers[index], err)
	}
	s.cache[index] = obj
	return obj, s.numbers[index], nil
}

// Object returns the object with the given number.
func (s *ObjectStream) Object(objNum int) (Object, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	for i, n := range s.numbers {
		if n == objNum {
			obj, _, err := s.ObjectAt(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers lists the object numbers in header order.
func (s *ObjectStream) ObjectNumbers() ([]int, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]int(nil), s.numbers...), nil
}
