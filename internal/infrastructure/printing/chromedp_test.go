package printing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultScale, r.config.Scale)
	assert.NotNil(t, r.allocCtx)
}

func TestNewChromedpRenderer_InvalidScale(t *testing.T) {
	_, err := NewChromedpRenderer(&ChromedpConfig{Scale: 3})
	assert.Error(t, err)
}

func TestChromedpRenderer_RenderValidation(t *testing.T) {
	r, err := NewChromedpRenderer(&ChromedpConfig{DefaultTimeout: time.Second})
	require.NoError(t, err)
	defer r.Close()
	ctx := context.Background()

	_, err = r.Render(ctx, &RenderRequest{HTML: "  ", PaperSize: PaperSizeA4})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(ctx, &RenderRequest{HTML: "<p>x</p>", PaperSize: "A0"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}

func TestBuildPrintParams(t *testing.T) {
	r := &ChromedpRenderer{config: ChromedpConfig{Scale: 1}}

	t.Run("A4 portrait", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{PaperSize: PaperSizeA4, Margins: DefaultMargins()})
		assert.InDelta(t, 8.27, params.paperWidth, 0.01)
		assert.InDelta(t, 11.69, params.paperHeight, 0.01)
		assert.InDelta(t, mmToInches(15), params.marginTop, 0.001)
		assert.False(t, params.landscape)
		assert.Empty(t, params.footerTemplate)
	})

	t.Run("letter landscape", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{PaperSize: PaperSizeLetter, Landscape: true})
		assert.InDelta(t, 8.5, params.paperWidth, 0.01)
		assert.InDelta(t, 11, params.paperHeight, 0.01)
		assert.True(t, params.landscape)
	})

	t.Run("footer reserves bottom margin", func(t *testing.T) {
		params := r.buildPrintParams(&RenderRequest{
			PaperSize:  PaperSizeA4,
			Margins:    Margins{Bottom: 2},
			FooterHTML: "<span class=\"pageNumber\"></span>",
		})
		assert.InDelta(t, mmToInches(10), params.marginBottom, 0.001)
		assert.NotEmpty(t, params.footerTemplate)
	})
}

func TestBuildCompleteHTML(t *testing.T) {
	t.Run("full document is kept", func(t *testing.T) {
		doc := "<!DOCTYPE html><html><body>x</body></html>"
		assert.Equal(t, doc, buildCompleteHTML(&RenderRequest{HTML: doc}))
	})

	t.Run("fragment is wrapped and title escaped", func(t *testing.T) {
		out := buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "A&B"})
		assert.Contains(t, out, "<!DOCTYPE html>")
		assert.Contains(t, out, "<title>A&amp;B</title>")
		assert.Contains(t, out, "<body><p>x</p></body>")
	})
}

func TestMmToInches(t *testing.T) {
	assert.InDelta(t, 1.0, mmToInches(25.4), 0.0001)
	assert.Equal(t, 0.0, mmToInches(0))
}
