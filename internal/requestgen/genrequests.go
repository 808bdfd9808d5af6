package requestgen

import (
	"strconv"
	"strings"

	"github.com/indigo-web/pushwire/http/headers"
)

// Headers returns n header lines, the last one being Host.
func Headers(n int) []headers.Line {
	lines := make([]headers.Line, 0, n)

	for i := 0; i < n-1; i++ {
		lines = append(lines, headers.Line{
			Key:   "some-random-header-name-nobody-cares-about" + strconv.Itoa(i),
			Value: strings.Repeat("b", 100),
		})
	}

	return append(lines, headers.Line{Key: "Host", Value: "localhost"})
}

func HeadersBlock(lines []headers.Line) (buff []byte) {
	for _, line := range lines {
		buff = append(buff, line.Key+": "+line.Value+"\r\n"...)
	}

	return buff
}

// Generate returns a GET request to the uri.
func Generate(uri string, lines []headers.Line) (request []byte) {
	request = append(request, "GET /"+uri+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(lines)...)

	return append(request, '\r', '\n')
}

// GeneratePOST returns a POST request to the uri with the body. Content-Length is
// appended to the lines.
func GeneratePOST(uri string, lines []headers.Line, body string) (request []byte) {
	request = append(request, "POST /"+uri+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(lines)...)
	request = append(request, "Content-Length: "+strconv.Itoa(len(body))+"\r\n\r\n"...)

	return append(request, body...)
}
