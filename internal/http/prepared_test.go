package http_test

import (
	"bytes"
	"io"
	nethttp "net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oscartbeaumont/async-web-client/internal/http"
)

var prepareShouldFail = map[string]struct {
	req  *http.Request
	kind http.Kind
}{
	"UnsupportedScheme": {
		req:  &http.Request{URL: "ftp://files.example.com/x"},
		kind: http.KindUnsupportedScheme,
	},
	"MissingHost": {
		req:  &http.Request{URL: "http:///just/a/path"},
		kind: http.KindInvalidRequest,
	},
	"MethodWithSpace": {
		req:  &http.Request{Method: "GE T", URL: "http://example.com/"},
		kind: http.KindInvalidRequest,
	},
	"HeaderNameInvalid": {
		req: &http.Request{
			URL:    "http://example.com/",
			Header: http.Header{"bad header": {"v"}},
		},
		kind: http.KindInvalidRequest,
	},
	"HeaderValueInvalid": {
		req: &http.Request{
			URL:    "http://example.com/",
			Header: http.Header{"X-Test": {"a\x00b"}},
		},
		kind: http.KindInvalidRequest,
	},
	"ContentLengthConflict": {
		req: &http.Request{
			Method: "POST",
			URL:    "http://example.com/",
			Body:   "abc",
			Header: http.Header{"Content-Length": {"5"}},
		},
		kind: http.KindInvalidRequest,
	},
	"BodyTypeUnsupported": {
		req: &http.Request{
			Method: "POST",
			URL:    "http://example.com/",
			Body:   42,
		},
		kind: http.KindInvalidRequest,
	},
}

func TestPrepareRejects(t *testing.T) {
	for name, cas := range prepareShouldFail {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			_, err := tCase.req.Prepare()
			if err == nil {
				t.Fatal("Prepare accepted the request")
			}
			if !http.IsKind(err, tCase.kind) {
				t.Errorf("error = %v, want kind %v", err, tCase.kind)
			}
		})
	}
}

func TestPrepareDefaults(t *testing.T) {
	pr, err := (&http.Request{URL: "//example.com/x"}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if pr.U.Scheme != "https" {
		t.Errorf("scheme = %q, want https for scheme-relative URL", pr.U.Scheme)
	}
	if pr.Method != "GET" {
		t.Errorf("method = %q, want GET default", pr.Method)
	}
	if pr.ContentLength != -1 {
		t.Errorf("content length = %d, want -1 without body", pr.ContentLength)
	}
	if body, _ := pr.GetBody(); body != http.NoBody {
		t.Error("bodyless request should yield NoBody")
	}
}

func TestPrepareHostHeader(t *testing.T) {
	pr, err := (&http.Request{
		URL:    "http://origin.example.com/x",
		Header: http.Header{"Host": {"override.example.com"}, "X-Keep": {"1"}},
	}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if pr.HeaderHost != "override.example.com" {
		t.Errorf("HeaderHost = %q", pr.HeaderHost)
	}
	want := http.Header{"X-Keep": {"1"}}
	if diff := cmp.Diff(want, pr.Header); diff != "" {
		t.Errorf("prepared headers mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareInternationalHost(t *testing.T) {
	pr, err := (&http.Request{URL: "http://bücher.example:8080/shelf"}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if pr.U.Host != "xn--bcher-kva.example:8080" {
		t.Errorf("host = %q, want punycode form with port", pr.U.Host)
	}
}

func readTwice(t *testing.T, pr *http.PreparedRequest) (first, second string, secondErr error) {
	t.Helper()
	b1, err := pr.GetBody()
	if err != nil {
		t.Fatal(err)
	}
	d1, _ := io.ReadAll(b1)
	b2, err := pr.GetBody()
	if err != nil {
		return string(d1), "", err
	}
	d2, _ := io.ReadAll(b2)
	return string(d1), string(d2), nil
}

func TestPrepareBodyForms(t *testing.T) {
	replayable := map[string]interface{}{
		"String":        "payload",
		"Bytes":         []byte("payload"),
		"BytesBuffer":   bytes.NewBufferString("payload"),
		"BytesReader":   bytes.NewReader([]byte("payload")),
		"StringsReader": strings.NewReader("payload"),
	}
	for name, body := range replayable {
		b := body
		t.Run(name, func(t *testing.T) {
			pr, err := (&http.Request{Method: "POST", URL: "http://example.com/", Body: b}).Prepare()
			if err != nil {
				t.Fatal(err)
			}
			if pr.ContentLength != int64(len("payload")) {
				t.Errorf("content length = %d", pr.ContentLength)
			}
			first, second, err := readTwice(t, pr)
			if err != nil {
				t.Fatalf("second GetBody = %v", err)
			}
			if first != "payload" || second != "payload" {
				t.Errorf("bodies = %q, %q", first, second)
			}
		})
	}

	t.Run("PlainReaderSingleShot", func(t *testing.T) {
		pr, err := (&http.Request{
			Method: "POST",
			URL:    "http://example.com/",
			Body:   io.MultiReader(strings.NewReader("stream")),
		}).Prepare()
		if err != nil {
			t.Fatal(err)
		}
		if pr.ContentLength != -1 {
			t.Errorf("content length = %d, want unknown", pr.ContentLength)
		}
		first, _, err := readTwice(t, pr)
		if first != "stream" {
			t.Errorf("first read = %q", first)
		}
		if err != nethttp.ErrBodyReadAfterClose {
			t.Errorf("second GetBody = %v, want ErrBodyReadAfterClose", err)
		}
	})
}
