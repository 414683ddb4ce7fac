package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_IndexText(t *testing.T) {
	p := Product{
		Title: "Pink Smocked Dress",
		Tags:  []string{"pink", "dress", "cf-size-chart"},
	}
	assert.Equal(t, "Pink Smocked Dress pink dress cf-size-chart", p.IndexText())
}

func TestProduct_IndexText_NoTags(t *testing.T) {
	p := Product{Title: "Plain Shirt"}
	assert.Equal(t, "Plain Shirt", p.IndexText())
}

func TestProduct_CleanTags_DropsReservedPrefix(t *testing.T) {
	p := Product{
		Tags: []string{"cf-internal", "pink", "cfx", "dress"},
	}
	assert.Equal(t, []string{"pink", "dress"}, p.CleanTags("cf"))
}

func TestProduct_CleanTags_TruncatesToMax(t *testing.T) {
	tags := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		tags = append(tags, string(rune('a'+i)))
	}
	p := Product{Tags: tags}

	cleaned := p.CleanTags("cf")
	assert.Len(t, cleaned, MaxVisibleTags)
	assert.Equal(t, "a", cleaned[0])
}

func TestProduct_CleanTags_EmptyPrefixKeepsAll(t *testing.T) {
	p := Product{Tags: []string{"cf-internal", "pink"}}
	assert.Equal(t, []string{"cf-internal", "pink"}, p.CleanTags(""))
}

func TestProduct_Cleaned_DoesNotMutateReceiver(t *testing.T) {
	p := Product{
		Handle: "pink-dress",
		Tags:   []string{"cf-internal", "pink"},
	}

	cleaned := p.Cleaned("cf")

	assert.Equal(t, []string{"pink"}, cleaned.Tags)
	assert.Equal(t, []string{"cf-internal", "pink"}, p.Tags)
	assert.Equal(t, "pink-dress", cleaned.Handle)
}
