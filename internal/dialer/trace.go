package dialer

import (
	"context"
	"net"
	"net/http/httptrace"
	"reflect"
)

// Contexts handed to the client may still carry a net/http ClientTrace
// from an outer request. The raw dials made here are not part of that
// request, so those callbacks must not fire. The standard library keys are
// unexported; they are recovered once at init by observing which keys the
// standard library asks a context for.

var stdNetTraceKey, stdHTTPTraceKey interface{}

type captureContext struct {
	context.Context
	capture func(reflect.Type)
}

func (c captureContext) Value(key interface{}) interface{} {
	c.capture(reflect.TypeOf(key))
	return nil
}

func init() {
	var stdNetTraceType, stdHTTPTraceType reflect.Type

	capture := captureContext{context.Background(), nil}
	capture.capture = func(t reflect.Type) { stdNetTraceType = t }
	(&net.Dialer{}).DialContext(capture, "invalid", "")
	capture.capture = func(t reflect.Type) { stdHTTPTraceType = t }
	httptrace.ContextClientTrace(capture)

	stdNetTraceKey = reflect.New(stdNetTraceType).Elem().Interface()
	stdHTTPTraceKey = reflect.New(stdHTTPTraceType).Elem().Interface()
}

func shadowStandardClientTrace(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, stdHTTPTraceKey, nil)
	ctx = context.WithValue(ctx, stdNetTraceKey, nil)
	return ctx
}
