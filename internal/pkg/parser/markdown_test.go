package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToHTML(t *testing.T) {
	htmlOut, err := MarkdownToHTML("# 标题\n\n一段**加粗**的文字")
	require.NoError(t, err)
	assert.Contains(t, htmlOut, "<h1")
	assert.Contains(t, htmlOut, "<strong>加粗</strong>")
}

func TestMarkdownToHTML_Table(t *testing.T) {
	htmlOut, err := MarkdownToHTML("| A | B |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, htmlOut, "<table>")
}

func TestMarkdownToHTML_StripsScript(t *testing.T) {
	htmlOut, err := MarkdownToHTML("正文\n\n<script>alert('xss')</script>")
	require.NoError(t, err)
	assert.NotContains(t, htmlOut, "<script>")
	assert.Contains(t, htmlOut, "正文")
}

func TestSanitizeUGC(t *testing.T) {
	out := SanitizeUGC(`<img src=x onerror="alert(1)">还不错`)
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "还不错")

	// 普通文本原样保留
	assert.Equal(t, "好文章", SanitizeUGC("好文章"))
}
