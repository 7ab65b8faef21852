// Package contentstream tokenizes decoded PDF content streams into
// operations.
//
// Each [Operation] holds an operator and the operands that preceded it:
//
//	ops, err := contentstream.NewParser(data).Parse()
//	for _, op := range ops {
//		fmt.Println(op.Operator, op.Operands)
//	}
//
// Inline images (BI ... ID ... EI) are returned as a single operation with
// Operator "BI" and the image in [Operation.Inline]. Abbreviated keys and
// names in the inline image dictionary are expanded to their full forms.
//
// The parser is lenient: bytes that cannot start a token are skipped and a
// malformed operand is dropped rather than failing the whole stream.
package contentstream
