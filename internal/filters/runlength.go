package filters

// RunLengthDecode expands PackBits-style runs. A length byte L below 128
// copies the next L+1 bytes, above 128 repeats the next byte 257-L times,
// and 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); {
		l := int(data[i])
		i++
		switch {
		case l == 128:
			return out, nil
		case l < 128:
			end := i + l + 1
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[i:end]...)
			i = end
		default:
			if i >= len(data) {
				return out, nil
			}
			for n := 0; n < 257-l; n++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}
