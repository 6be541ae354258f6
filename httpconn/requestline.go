package httpconn

import "bytes"

// requestLine is the parsed first line of an HTTP request, spec §3's
// ParsedRequest fields that come from the request-line parser (§4.3).
type requestLine struct {
	method  []byte
	path    string
	query   string
	version string
}

var absoluteURIPrefixes = [][]byte{
	[]byte("http://"),
	[]byte("https://"),
	[]byte("HTTP://"),
	[]byte("HTTPS://"),
}

// parseRequestLine implements spec §4.3. It consumes leading empty lines
// (bounded by maxEmpty, tracked across calls via emptyLines) and, once a
// genuine request line has fully arrived, parses method/target/version
// from it. needMore is true when the caller should read more bytes and
// retry from the start of the (possibly-shrunk) buffer.
func parseRequestLine(buf []byte, maxLen, maxEmpty int, emptyLines *int) (rl requestLine, consumed int, needMore bool, err error) {
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx == -1 {
			if len(buf) > maxLen {
				return requestLine{}, 0, false, ErrRequestLineTooLong
			}
			return requestLine{}, 0, true, nil
		}
		if idx == 0 {
			return requestLine{}, 0, false, ErrMalformedRequestLine
		}
		if idx == 1 && buf[0] == '\r' {
			if *emptyLines >= maxEmpty {
				return requestLine{}, 0, false, ErrTooManyEmptyLines
			}
			*emptyLines++
			buf = buf[2:]
			consumed += 2
			continue
		}
		if idx > maxLen {
			return requestLine{}, 0, false, ErrRequestLineTooLong
		}
		if buf[0] == ' ' {
			return requestLine{}, 0, false, ErrMalformedRequestLine
		}

		raw := buf[:idx] // line content, excluding the terminating LF
		lineConsumed := idx + 1

		// Only the final byte of raw may be CR; any earlier CR is bare
		// and malformed (covers "bare CR in method"/"bare CR anywhere").
		if crIdx := bytes.IndexByte(raw, '\r'); crIdx != -1 && crIdx != len(raw)-1 {
			return requestLine{}, 0, false, ErrMalformedRequestLine
		}

		spIdx := bytes.IndexByte(raw, ' ')
		if spIdx == -1 {
			return requestLine{}, 0, false, ErrMalformedRequestLine
		}
		method := raw[:spIdx]
		rest := raw[spIdx+1:]

		sp2 := bytes.IndexByte(rest, ' ')
		if sp2 == -1 {
			return requestLine{}, 0, false, ErrMalformedRequestLine
		}
		target := rest[:sp2]
		// versionToken is reconstructed with the real LF byte so the
		// literal-match below sees the exact wire bytes, including CRLF.
		versionToken := append(append([]byte(nil), rest[sp2+1:]...), '\n')

		path, query, perr := parseTarget(target)
		if perr != nil {
			return requestLine{}, 0, false, perr
		}

		version, verr := matchVersion(versionToken)
		if verr != nil {
			return requestLine{}, 0, false, verr
		}

		result := requestLine{
			method:  append([]byte(nil), method...),
			path:    path,
			query:   query,
			version: version,
		}
		return result, consumed + lineConsumed, false, nil
	}
}

func matchVersion(v []byte) (string, error) {
	switch {
	case bytes.Equal(v, []byte("HTTP/1.1\r\n")):
		return "HTTP/1.1", nil
	case bytes.Equal(v, []byte("HTTP/1.0\r\n")):
		return "HTTP/1.0", nil
	default:
		return "", ErrUnsupportedVersion
	}
}

func parseTarget(target []byte) (path, query string, err error) {
	if len(target) == 1 && target[0] == '*' {
		return "*", "", nil
	}

	for _, prefix := range absoluteURIPrefixes {
		if bytes.HasPrefix(target, prefix) {
			return parseAbsoluteURITarget(target[len(prefix):])
		}
	}
	return parseOriginFormTarget(target)
}

func parseAbsoluteURITarget(remainder []byte) (path, query string, err error) {
	idx := bytes.IndexAny(remainder, "/?#")
	if idx == -1 {
		return "/", "", nil
	}
	switch remainder[idx] {
	case '/':
		return parseOriginFormTarget(remainder[idx:])
	case '?':
		return parseOriginFormTarget(append([]byte{'/'}, remainder[idx:]...))
	default: // '#'
		return "/", "", nil
	}
}

func parseOriginFormTarget(target []byte) (path, query string, err error) {
	qIdx := bytes.IndexByte(target, '?')
	hIdx := bytes.IndexByte(target, '#')

	switch {
	case qIdx == -1 && hIdx == -1:
		return string(target), "", nil
	case qIdx != -1 && (hIdx == -1 || qIdx < hIdx):
		p := string(target[:qIdx])
		if hIdx != -1 {
			return p, string(target[qIdx+1 : hIdx]), nil
		}
		return p, string(target[qIdx+1:]), nil
	default:
		return string(target[:hIdx]), "", nil
	}
}
