package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInnerHTML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"quotes stay literal in text", `Mega's "Draw"`, `Mega's "Draw"`},
		{"nbsp is named", `Noon&nbsp;A`, `Noon&nbsp;A`},
		{"markup characters escaped", `a &amp; b &lt; c &gt; d`, `a &amp; b &lt; c &gt; d`},
		{"attribute quotes escaped", `<span title='say "hi" &amp; go'>7</span>`, `<span title="say &quot;hi&quot; &amp; go">7</span>`},
		{"attribute apostrophe literal", `<span title="it's">7</span>`, `<span title="it's">7</span>`},
		{"void element has no end tag", `1<br>2<img src="x.png">`, `1<br>2<img src="x.png">`},
		{"comment kept", `<!-- note -->7`, `<!-- note -->7`},
		{"nested markup", `<b>0<i>2</i></b>`, `<b>0<i>2</i></b>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parseDocument(`<div id="cell">` + tt.body + `</div>`)
			require.NoError(t, err)
			cell := doc.Find("#cell")
			require.Equal(t, 1, cell.Length())
			assert.Equal(t, tt.want, innerHTML(cell.Nodes[0]))
		})
	}
}

func TestInnerHTML_ScriptTextIsRaw(t *testing.T) {
	doc, err := parseDocument(`<div id="cell"><script>if (a < b && c) {}</script></div>`)
	require.NoError(t, err)
	assert.Equal(t, `<script>if (a < b && c) {}</script>`, innerHTML(doc.Find("#cell").Nodes[0]))
}
