package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namePtr(s string) *string { return &s }

func TestContext_MarshalJSON(t *testing.T) {
	t.Parallel()

	class := Frame{Kind: ClassFrame, Name: namePtr("Loader"), StartLine: 1, EndLine: 9, Code: "class Loader:"}
	method := Frame{Kind: FunctionFrame, Name: namePtr("load"), Parameters: []string{"self"}, StartLine: 2, EndLine: 3, Code: "def load(self):"}
	anon := Frame{Kind: FunctionFrame, StartLine: 4, EndLine: 4, Code: "lambda: 0"}

	tests := []struct {
		name    string
		context Context
		want    string
	}{
		{
			name:    "module",
			context: Context{},
			want:    `{"type":"module","name":null}`,
		},
		{
			name:    "class omits parameters",
			context: Context{Frames: []Frame{class}},
			want:    `{"type":"class","name":"Loader","start_line":1,"end_line":9,"code":"class Loader:"}`,
		},
		{
			name:    "anonymous function keeps empty parameters",
			context: Context{Frames: []Frame{anon}},
			want:    `{"type":"function","name":null,"parameters":[],"start_line":4,"end_line":4,"code":"lambda: 0"}`,
		},
		{
			name:    "chain",
			context: Context{Frames: []Frame{class, method}},
			want: `{"chain":[` +
				`{"type":"class","name":"Loader","start_line":1,"end_line":9,"code":"class Loader:"},` +
				`{"type":"function","name":"load","parameters":["self"],"start_line":2,"end_line":3,"code":"def load(self):"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := json.Marshal(tt.context)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestContext_Shape(t *testing.T) {
	t.Parallel()

	frame := Frame{Kind: FunctionFrame}
	assert.Equal(t, ShapeModule, Context{}.Shape())
	assert.Nil(t, Context{}.Innermost())
	assert.Equal(t, ShapeSingle, Context{Frames: []Frame{frame}}.Shape())

	chain := Context{Frames: []Frame{{Kind: ClassFrame}, frame}}
	assert.Equal(t, ShapeChain, chain.Shape())
	assert.Equal(t, 2, chain.Depth())
	assert.Equal(t, FunctionFrame, chain.Innermost().Kind)
}

func TestExtractedComment_KindJSON(t *testing.T) {
	t.Parallel()

	got, err := json.Marshal(ExtractedComment{Kind: DocString, Text: `"""x"""`, StartLine: 1, EndLine: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"docstring","text":"\"\"\"x\"\"\"","start_line":1,"end_line":1,"context":{"type":"module","name":null}}`, string(got))
}
