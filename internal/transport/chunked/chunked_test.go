package chunked_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/oscartbeaumont/async-web-client/internal/transport/chunked"
)

var decodeShouldBe = map[string]struct {
	wire    string
	payload string
}{
	"SingleChunk":   {wire: "5\r\nhello\r\n0\r\n\r\n", payload: "hello"},
	"TwoChunks":     {wire: "3\r\nfoo\r\n3\r\nbar\r\n0\r\n\r\n", payload: "foobar"},
	"UppercaseHex":  {wire: "A\r\n0123456789\r\n0\r\n\r\n", payload: "0123456789"},
	"Empty":         {wire: "0\r\n\r\n", payload: ""},
	"WithExtension": {wire: "5;ext=1\r\nhello\r\n0\r\n\r\n", payload: "hello"},
	"PaddedSize":    {wire: "5 \r\nhello\r\n0\r\n\r\n", payload: "hello"},
}

func TestReader(t *testing.T) {
	for name, cas := range decodeShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			r := chunked.NewReader(strings.NewReader(tCase.wire))
			if err := iotest.TestReader(r, []byte(tCase.payload)); err != nil {
				t.Error(err)
			}
		})
	}
}

var decodeShouldFail = map[string]struct {
	wire      string
	malformed bool
}{
	"NonHexSize":         {wire: "zz\r\nhello\r\n", malformed: true},
	"MissingSize":        {wire: "\r\nhello\r\n", malformed: true},
	"SizeTooLarge":       {wire: "00000000000000001\r\nx\r\n", malformed: true},
	"DataNotTerminated":  {wire: "5\r\nhelloXX0\r\n\r\n", malformed: true},
	"TruncatedData":      {wire: "5\r\nhe"},
	"TruncatedAfterData": {wire: "5\r\nhello"},
	"MissingLastChunk":   {wire: "5\r\nhello\r\n"},
}

func TestReaderMalformed(t *testing.T) {
	for name, cas := range decodeShouldFail {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			_, err := io.ReadAll(chunked.NewReader(strings.NewReader(tCase.wire)))
			if err == nil {
				t.Fatal("decode succeeded")
			}
			if tCase.malformed != errors.Is(err, chunked.ErrMalformedEncoding) {
				t.Errorf("error = %v, malformed = %v", err, tCase.malformed)
			}
			if !tCase.malformed && !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("truncation should surface io.ErrUnexpectedEOF, got %v", err)
			}
		})
	}
}

func TestReaderErrorSticky(t *testing.T) {
	r := chunked.NewReader(strings.NewReader("zz\r\n"))
	_, first := io.ReadAll(r)
	if first == nil {
		t.Fatal("decode succeeded")
	}
	if _, again := r.Read(make([]byte, 8)); again != first {
		t.Errorf("second read = %v, want identical %v", again, first)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	var wire bytes.Buffer
	w := chunked.NewWriter(&wire)
	for _, part := range []string{"hello ", "", "chunked ", "world"} {
		if _, err := w.Write([]byte(part)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := io.ReadAll(chunked.NewReader(&wire))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello chunked world" {
		t.Errorf("round trip = %q", got)
	}
}

func TestWriterWire(t *testing.T) {
	var wire bytes.Buffer
	w := chunked.NewWriter(&wire)
	w.Write([]byte("hello"))
	w.Close()
	want := "5\r\nhello\r\n0\r\n\r\n"
	if wire.String() != want {
		t.Errorf("wire = %q, want %q", wire.String(), want)
	}
}
