package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCategoryIdempotent(t *testing.T) {
	for _, in := range []string{" shirts ", "Shoes", "\tkids\n", "", "  ", "ÇALÇAS", "MIXED case "} {
		once := NormalizeCategory(in)
		assert.Equal(t, once, NormalizeCategory(once), "input %q", in)
		assert.Equal(t, strings.ToUpper(strings.TrimSpace(once)), once)
	}
	assert.Equal(t, "SHIRTS", NormalizeCategory(" shirts "))
}

func decodeForm(t *testing.T, raw string) ProductForm {
	t.Helper()
	var f ProductForm
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func TestProductFormValidate(t *testing.T) {
	f := decodeForm(t, `{"name":"Shirt","image":"https://x/y.png","category":" shirts ","price":10,"is_active":true}`)
	data, err := f.Validate()
	require.NoError(t, err)

	assert.Equal(t, "Shirt", data.Name)
	assert.Equal(t, "SHIRTS", data.Category)
	assert.True(t, data.Price.Equal(decimal.NewFromInt(10)))
	assert.True(t, data.IsActive)
	assert.Nil(t, data.Description)
}

func TestProductFormDefaultsAndCoercion(t *testing.T) {
	f := decodeForm(t, `{"name":"Cap","image":"https://x/cap.png","category":"hats","price":"12.50","description":"  "}`)
	data, err := f.Validate()
	require.NoError(t, err)

	assert.True(t, data.IsActive, "is_active defaults to true")
	assert.True(t, data.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Nil(t, data.Description, "blank description is treated as absent")

	f = decodeForm(t, `{"name":"Cap","image":"https://x/cap.png","category":"hats","is_active":"false"}`)
	data, err = f.Validate()
	require.NoError(t, err)
	assert.False(t, data.IsActive)
	assert.True(t, data.Price.IsZero())
}

func TestProductFormRejects(t *testing.T) {
	long := strings.Repeat("a", 501)
	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{"empty name", `{"name":"","image":"https://x/y.png","category":"a"}`, "name"},
		{"blank name", `{"name":"   ","image":"https://x/y.png","category":"a"}`, "name"},
		{"empty image", `{"name":"n","image":"","category":"a"}`, "image"},
		{"bad image", `{"name":"n","image":"not a url","category":"a"}`, "image"},
		{"empty category", `{"name":"n","image":"https://x/y.png","category":""}`, "category"},
		{"blank category", `{"name":"n","image":"https://x/y.png","category":"   "}`, "category"},
		{"negative price", `{"name":"n","image":"https://x/y.png","category":"a","price":-1}`, "price"},
		{"price overflows column", `{"name":"n","image":"https://x/y.png","category":"a","price":1000000000}`, "price"},
		{"long description", `{"name":"n","image":"https://x/y.png","category":"a","description":"` + long + `"}`, "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeForm(t, tc.raw).Validate()
			var verr *Error
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.True(t, verr.Has(tc.field), "fields: %v", verr.Fields)
		})
	}
}

func TestProductFormValidateWithDefaults(t *testing.T) {
	stored := decimal.RequireFromString("42")
	f := decodeForm(t, `{"name":"Cap","image":"https://x/cap.png","category":"hats"}`)
	data, err := f.ValidateWithDefaults(stored, false)
	require.NoError(t, err)
	assert.True(t, data.Price.Equal(stored))
	assert.False(t, data.IsActive)

	f = decodeForm(t, `{"name":"Cap","image":"https://x/cap.png","category":"hats","price":"9.99","is_active":true}`)
	data, err = f.ValidateWithDefaults(stored, false)
	require.NoError(t, err)
	assert.True(t, data.Price.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, data.IsActive)

	f = decodeForm(t, `{"name":"Cap","image":"https://x/cap.png","category":"hats","price":"99999999.99"}`)
	_, err = f.Validate()
	assert.NoError(t, err, "largest decimal(10,2) value")
}

func TestDescriptionCountsCharactersNotBytes(t *testing.T) {
	desc := strings.Repeat("é", 500)
	f := ProductForm{Name: "n", Image: "https://x/y.png", Category: "a", Description: &desc}
	_, err := f.Validate()
	assert.NoError(t, err)
}

func TestFlexBool(t *testing.T) {
	var v struct {
		A FlexBool `json:"a"`
		B FlexBool `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"true","b":false}`), &v))
	assert.True(t, bool(v.A))
	assert.False(t, bool(v.B))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"yes"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1.5}`), &v))
}

func TestValidateToggleField(t *testing.T) {
	assert.NoError(t, ValidateToggleField("is_active"))

	err := ValidateToggleField("is_deleted")
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("field"))

	assert.Error(t, ValidateToggleField(""))
}

func TestParseKeywordsAndBanners(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseKeywords("a, b ,c"))
	assert.Equal(t, []string{"a", "b"}, ParseKeywords("a,,b, a ,"))
	assert.Equal(t, []string{}, ParseKeywords(""))

	assert.Equal(t, []string{"u1", "u2"}, ParseBannerImages("u1\nu2\n"))
	assert.Equal(t, []string{"u2", "u1"}, ParseBannerImages(" u2 \r\n\n u1"))
	assert.Equal(t, []string{}, ParseBannerImages("\n\n"))
}

func TestSettingsFormValidate(t *testing.T) {
	data, err := SettingsForm{
		SiteName:              "Nuvyra",
		DefaultSEOTitle:       "Nuvyra Store",
		DefaultSEODescription: "Roupas",
		SEOKeywords:           "a, b ,c",
		BannerImages:          "u1\nu2\n",
	}.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, data.SEOKeywords)
	assert.Equal(t, []string{"u1", "u2"}, data.BannerImages)

	_, err = SettingsForm{SiteName: " "}.Validate()
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("site_name"))
	assert.True(t, verr.Has("default_seo_title"))
	assert.True(t, verr.Has("default_seo_description"))
}

func TestBulkIDs(t *testing.T) {
	a, b := uuid.NewString(), uuid.NewString()
	valid, requested := BulkIDs([]string{a, b, a, "nope", " " + b})
	assert.Equal(t, []string{a, b}, valid)
	assert.Equal(t, 3, requested)
}
