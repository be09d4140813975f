package jsonutil

import (
	"testing"

	"qrmenu/internal/tester"
)

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"updatedMarkup": "<p>a & b</p>"})
	tester.NoErr(t, err)
	tester.Eq(t, string(b), `{"updatedMarkup":"<p>a & b</p>"}`)
}
