package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/kqxs/models"
)

func TestParseMinhNgocNorth(t *testing.T) {
	got, err := ParseMinhNgocNorth(northPage)
	require.NoError(t, err)
	assert.Equal(t, []string{"12345", "67890", "11111", "22222", "01", "<b>02</b>"}, got)
}

func TestParseMinhNgocNorth_NoResultBox(t *testing.T) {
	got, err := ParseMinhNgocNorth(`<html><body><td class="giai1"><div>x</div></td></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseMinhNgocColumn(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want []string
	}{
		{"first province", 1, []string{"A8", "A7"}},
		{"second province", 2, []string{"B8"}},
		{"missing province", 3, []string{}},
		{"no column selected", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinhNgocColumn(southPage, tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinhNgocTargetURL(t *testing.T) {
	m := NewMinhNgoc(NewBouncer("https://proxy.example/index.php"))
	q := NewQuery(day(2024, 5, 1), "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-bac.html", "V2", true, false)

	assert.Equal(t, "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-bac/01-05-2024.html", m.TargetURL(q))
}

func TestMinhNgocExtract_NorthIgnoresColumn(t *testing.T) {
	m := NewMinhNgoc(NewBouncer("https://proxy.example/index.php"))
	page := &fakePage{html: northPage}

	for _, col := range []string{"V1", "V2", "V3", "V9"} {
		page.calls = nil
		q := NewQuery(day(2024, 5, 1), "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-bac.html", col, true, false)

		res, err := m.Extract(context.Background(), page, q)
		require.NoError(t, err)
		assert.Equal(t, "12345\n67890\n11111\n22222\n01\n<b>02</b>", res.String(), "column %s", col)
	}

	assert.Equal(t, []string{
		"Navigate https://proxy.example/index.php 0s",
		"WaitVisible #url_textbox",
		"Submit #url_textbox https://www.minhngoc.net.vn/ket-qua-xo-so/mien-bac/01-05-2024.html",
		"HTML",
	}, page.calls)
}

func TestMinhNgocExtract_GeneralLayoutUsesColumn(t *testing.T) {
	m := NewMinhNgoc(NewBouncer("https://proxy.example/index.php"))
	page := &fakePage{html: southPage}
	q := NewQuery(day(2024, 5, 1), "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-nam.html", "V1", true, false)

	res, err := m.Extract(context.Background(), page, q)
	require.NoError(t, err)
	assert.Equal(t, "A8\nA7", res.String())
}

func TestMinhNgocExtract_BounceFailure(t *testing.T) {
	m := NewMinhNgoc(NewBouncer("https://proxy.example/index.php"))
	notFound := models.NewScrapeError(models.ErrCodeElementNotFound, "url box missing", nil)
	page := &fakePage{html: northPage, failOn: "WaitVisible", err: notFound}
	q := NewQuery(day(2024, 5, 1), "https://www.minhngoc.net.vn/ket-qua-xo-so/mien-bac.html", "V1", true, false)

	_, err := m.Extract(context.Background(), page, q)
	require.Error(t, err)
	assert.True(t, errors.Is(err, notFound))
	assert.NotContains(t, page.calls, "HTML")
}
