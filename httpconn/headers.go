package httpconn

import (
	"bytes"
	"strings"
)

// headerField is one parsed (name, value) pair. Names are always
// ASCII-lower-cased; values have trailing SP/HTAB stripped.
type headerField struct {
	name  string
	value string
}

// parseHeaderBlock implements spec §4.4: it repeatedly attempts to parse as
// many complete header lines as the current buffer holds, re-scanning from
// offset 0 of whatever remains each time (spec §9's "single-pass binary
// match" note), stopping at the CRLF-on-empty-line terminator.
func parseHeaderBlock(buf []byte, maxName, maxValue, maxCount int, headers *[]headerField) (consumed int, done bool, needMore bool, err error) {
	for {
		if len(buf) >= 2 && buf[0] == '\r' && buf[1] == '\n' {
			consumed += 2
			return consumed, true, false, nil
		}
		if len(buf) < 2 {
			return consumed, false, true, nil
		}

		if len(*headers) >= maxCount {
			return consumed, false, false, ErrTooManyHeaders
		}

		colonIdx := bytes.IndexByte(buf, ':')
		if colonIdx == -1 {
			if len(buf) > maxName {
				return consumed, false, false, ErrHeaderTooLong
			}
			return consumed, false, true, nil
		}

		nameTrimmed := bytes.TrimRight(buf[:colonIdx], " \t")
		if len(nameTrimmed) == 0 {
			return consumed, false, false, ErrMalformedHeader
		}
		if colonIdx > maxName {
			return consumed, false, false, ErrHeaderTooLong
		}
		name := strings.ToLower(string(nameTrimmed))

		vi := colonIdx + 1
		for vi < len(buf) && (buf[vi] == ' ' || buf[vi] == '\t') {
			vi++
		}
		if vi >= len(buf) {
			return consumed, false, true, nil
		}

		value, after, complete, verr := scanHeaderValue(buf, vi, maxValue)
		if verr != nil {
			return consumed, false, false, verr
		}
		if !complete {
			return consumed, false, true, nil
		}

		*headers = append(*headers, headerField{name: name, value: value})
		buf = buf[after:]
		consumed += after
	}
}

// scanHeaderValue scans a header value starting at buf[start], tolerating
// obs-fold continuations, and returns the folded, right-trimmed value plus
// the index just past its terminating LF.
func scanHeaderValue(buf []byte, start, maxValue int) (value string, after int, complete bool, err error) {
	var val []byte
	i := start

	for {
		rel := bytes.IndexByte(buf[i:], '\r')
		if rel == -1 {
			if len(buf)-start > maxValue {
				return "", 0, false, ErrHeaderTooLong
			}
			return "", 0, false, nil
		}
		crAbs := i + rel

		if crAbs+1 >= len(buf) {
			// LF has not arrived yet; must read one more byte before
			// deciding whether this is obs-fold or the terminator.
			if crAbs-start > maxValue {
				return "", 0, false, ErrHeaderTooLong
			}
			return "", 0, false, nil
		}
		if buf[crAbs+1] != '\n' {
			return "", 0, false, ErrMalformedHeader
		}

		val = append(val, buf[i:crAbs]...)
		lfIdx := crAbs + 1

		if lfIdx+1 >= len(buf) {
			// LF at end of available buffer: must read one more byte to
			// disambiguate obs-fold from terminator (spec §4.4 step 5,
			// §9's obs-fold-at-buffer-end note).
			return "", 0, false, nil
		}

		if buf[lfIdx+1] == ' ' || buf[lfIdx+1] == '\t' {
			val = append(val, buf[lfIdx+1])
			i = lfIdx + 2
			if len(val) > maxValue {
				return "", 0, false, ErrHeaderTooLong
			}
			continue
		}

		trimmed := bytes.TrimRight(val, " \t")
		if len(trimmed) > maxValue {
			return "", 0, false, ErrHeaderTooLong
		}
		return string(trimmed), lfIdx + 1, true, nil
	}
}
