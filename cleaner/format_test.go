package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/kqxs/models"
	"github.com/use-agent/kqxs/source"
)

func TestRender(t *testing.T) {
	res := source.Result{
		Fragments: []string{"12345", "<b>67</b>", "<span>8</span>\n <span>9</span>"},
		Separator: "\n",
	}

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"default is html", "", "12345\n<b>67</b>\n<span>8</span>\n <span>9</span>"},
		{"html", FormatHTML, "12345\n<b>67</b>\n<span>8</span>\n <span>9</span>"},
		{"text", FormatText, "12345\n67\n8 9"},
		{"markdown", FormatMarkdown, "12345\n**67**\n8 9"},
	}

	f := NewFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Render(res, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_KeepsSeparator(t *testing.T) {
	res := source.Result{Fragments: []string{"<i>1</i>", "2"}, Separator: " "}

	got, err := NewFormatter().Render(res, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "1 2", got)
}

func TestRender_Empty(t *testing.T) {
	got, err := NewFormatter().Render(source.Result{Separator: "\n"}, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := NewFormatter().Render(source.Result{Fragments: []string{"1"}}, "pdf")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeInvalidInput, models.ErrorCode(err))
}
