package cloner

import (
	"bytes"
	"context"
	"encoding/gob"
	"reflect"
)

// Noop is a Cloner returning its input unchanged.
var Noop Cloner = noop{}

type noop struct{}

func (noop) Clone(_ context.Context, v any) (any, error) {
	return v, nil
}

// Gob clones by encoding to gob and decoding into a fresh value.
//
// Only exported fields survive and shared references are duplicated. The
// graph must not contain cycles. Types stored behind interfaces must be
// registered with gob.Register.
var Gob Cloner = gobCloner{}

type gobCloner struct{}

func (gobCloner) Clone(ctx context.Context, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if v == nil || absent(rv) {
		return v, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := rv.Type()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).EncodeValue(rv); err != nil {
		return nil, &CloningError{Type: t, Err: err}
	}

	out := reflect.New(t)
	if err := gob.NewDecoder(&buf).DecodeValue(out); err != nil {
		return nil, &CloningError{Type: t, Err: err}
	}

	return out.Elem().Interface(), nil
}
