package core

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestParseObject tests parsing of direct objects.
func TestParseObject(t *testing.T) {
	tests := []struct {
		in   string
		want Object
	}{
		{"null", Null{}},
		{"true", Bool(true)},
		{"42", Int(42)},
		{"-3.5", Real(-3.5)},
		{".5", Real(0.5)},
		{"(hi)", String("hi")},
		{"<48 49>", String("HI")},
		{"<484>", String("H@")},
		{"/Font", Name("Font")},
		{"[1 2 0 R /X]", Array{Int(1), IndirectRef{Number: 2}, Name("X")}},
		{"[1 2 3]", Array{Int(1), Int(2), Int(3)}},
		{"<< /A 1 /B null /C [true] >>", Dict{"A": Int(1), "C": Array{Bool(true)}}},
		{"<< /A 1 /B >>", Dict{"A": Int(1)}},
		{"<< /R 5 0 R >>", Dict{"R": IndirectRef{Number: 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewParser(strings.NewReader(tt.in)).ParseObject()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestParseObjectSequence tests consecutive objects and the EOF marker.
func TestParseObjectSequence(t *testing.T) {
	p := NewParser(strings.NewReader("1 2 /N"))
	for _, want := range []Object{Int(1), Int(2), Name("N")} {
		got, err := p.ParseObject()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
	if _, err := p.ParseObject(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestParseObjectErrors tests malformed input.
func TestParseObjectErrors(t *testing.T) {
	for _, in := range []string{"[1 2", "<< /A 1", "<< 1 2 >>", "endobj"} {
		if _, err := NewParser(strings.NewReader(in)).ParseObject(); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

// TestParseIndirectObject tests object definitions with and without streams.
func TestParseIndirectObject(t *testing.T) {
	obj, err := NewParser(strings.NewReader("7 0 obj << /Type /Catalog >> endobj")).ParseIndirectObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.Ref != (IndirectRef{Number: 7}) {
		t.Errorf("expected ref 7 0, got %v", obj.Ref)
	}
	if d, ok := obj.Object.(Dict); !ok || d["Type"] != Name("Catalog") {
		t.Errorf("expected catalog dict, got %v", obj.Object)
	}
}

// TestParseStream tests stream data recovery for good and bad lengths.
func TestParseStream(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"exact length", "1 0 obj << /Length 5 >>\nstream\nhello\nendstream\nendobj"},
		{"crlf", "1 0 obj << /Length 5 >>\r\nstream\r\nhello\r\nendstream endobj"},
		{"short length", "1 0 obj << /Length 3 >>\nstream\nhello\nendstream\nendobj"},
		{"missing length", "1 0 obj << >>\nstream\nhello\nendstream\nendobj"},
		{"unresolved length", "1 0 obj << /Length 9 0 R >>\nstream\nhello\nendstream\nendobj"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := NewParser(strings.NewReader(tt.in)).ParseIndirectObject()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			s, ok := obj.Object.(*Stream)
			if !ok {
				t.Fatalf("expected stream, got %T", obj.Object)
			}
			if string(s.Data) != "hello" {
				t.Errorf("expected %q, got %q", "hello", s.Data)
			}
		})
	}
}

// TestParseStreamResolvedLength tests an indirect /Length.
func TestParseStreamResolvedLength(t *testing.T) {
	p := NewParser(strings.NewReader("1 0 obj << /Length 2 0 R >>\nstream\nab)cd\nendstream\nendobj 3"))
	p.SetResolver(ResolverFunc(func(obj Object) (Object, error) {
		if _, ok := obj.(IndirectRef); ok {
			return Int(5), nil
		}
		return obj, nil
	}))
	obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(obj.Object.(*Stream).Data); got != "ab)cd" {
		t.Errorf("expected %q, got %q", "ab)cd", got)
	}
	next, err := p.ParseObject()
	if err != nil || next != Int(3) {
		t.Errorf("expected parsing to resume after endobj, got %v, %v", next, err)
	}
}
