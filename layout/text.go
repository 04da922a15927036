package layout

// readText decodes a list reader produced from a Text pointer field (§4.7):
// a list of BYTE elements ending in a single NUL terminator, which is
// stripped from the returned string. ok is false if lr is invalid, empty,
// or its last element is not NUL; the element size is not checked.
func readText(lr ListReader) (string, bool) {
	if !lr.IsValid() {
		return "", false
	}
	n := lr.Len()
	if n == 0 {
		return "", false
	}
	if lr.GetUint8(n-1, 0) != 0 {
		return "", false
	}

	buf := make([]byte, n-1)
	for i := 0; i < n-1; i++ {
		buf[i] = lr.GetUint8(i, 0)
	}

	return string(buf), true
}

// readData decodes a list reader produced from a Data pointer field (§4.7):
// a raw list of BYTE elements with no terminator.
func readData(lr ListReader) []byte {
	if !lr.IsValid() || lr.Len() == 0 {
		return nil
	}

	buf := make([]byte, lr.Len())
	for i := range buf {
		buf[i] = lr.GetUint8(i, 0)
	}

	return buf
}
