package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCustomMediaTypes(t *testing.T) {
	t.Parallel()

	t.Run("adds two namespaced media types per family", func(t *testing.T) {
		t.Parallel()

		jsonFormatter := NewJSONFormatter("application/json")
		xmlFormatter := NewXMLFormatter("application/xml")
		registry := NewRegistry(jsonFormatter, xmlFormatter)

		RegisterCustomMediaTypes(registry)

		require.Equal(t, 3, jsonFormatter.SupportedMediaTypes().Len())
		require.Equal(t, 3, xmlFormatter.SupportedMediaTypes().Len())
		for _, mt := range jsonFormatter.SupportedMediaTypes().Values()[1:] {
			assert.Regexp(t, `^application/vnd\.bookapi\.[a-z]+\+json$`, mt)
		}
		for _, mt := range xmlFormatter.SupportedMediaTypes().Values()[1:] {
			assert.Regexp(t, `^application/vnd\.bookapi\.[a-z]+\+xml$`, mt)
		}
	})

	t.Run("xml only registry gains only xml media types", func(t *testing.T) {
		t.Parallel()

		xmlFormatter := NewXMLFormatter("application/xml")
		registry := NewRegistry(xmlFormatter)

		assert.NotPanics(t, func() { RegisterCustomMediaTypes(registry) })

		assert.Equal(t, []string{"application/xml", HATEOASXML, APIRootXML}, xmlFormatter.SupportedMediaTypes().Values())
		assert.Nil(t, registry.FirstOfFamily(FamilyJSON))
	})

	t.Run("json only registry gains only json media types", func(t *testing.T) {
		t.Parallel()

		jsonFormatter := NewJSONFormatter("application/json")
		registry := NewRegistry(jsonFormatter)

		RegisterCustomMediaTypes(registry)

		assert.Equal(t, []string{"application/json", HATEOASJSON, APIRootJSON}, jsonFormatter.SupportedMediaTypes().Values())
	})

	t.Run("empty registry is a no-op", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()

		assert.NotPanics(t, func() { RegisterCustomMediaTypes(registry) })
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("other families are untouched", func(t *testing.T) {
		t.Parallel()

		cborFormatter, err := NewCBORFormatter()
		require.NoError(t, err)
		registry := NewRegistry(cborFormatter)

		RegisterCustomMediaTypes(registry)

		assert.Equal(t, []string{"application/cbor"}, cborFormatter.SupportedMediaTypes().Values())
	})

	t.Run("only the first formatter of a family is extended", func(t *testing.T) {
		t.Parallel()

		first := NewJSONFormatter("application/json")
		second := NewJSONFormatter("text/json")
		registry := NewRegistry(first, second)

		RegisterCustomMediaTypes(registry)

		assert.Equal(t, 3, first.SupportedMediaTypes().Len())
		assert.Equal(t, []string{"text/json"}, second.SupportedMediaTypes().Values())
	})
}

func TestRegisterCustomMediaTypes_PositionIndependent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(jsonF *JSONFormatter, xmlF *XMLFormatter, other Formatter) *Registry
	}{
		{
			name: "targets first",
			build: func(jsonF *JSONFormatter, xmlF *XMLFormatter, other Formatter) *Registry {
				return NewRegistry(jsonF, xmlF, other)
			},
		},
		{
			name: "targets in the middle",
			build: func(jsonF *JSONFormatter, xmlF *XMLFormatter, other Formatter) *Registry {
				return NewRegistry(other, xmlF, jsonF, other)
			},
		},
		{
			name: "targets last",
			build: func(jsonF *JSONFormatter, xmlF *XMLFormatter, other Formatter) *Registry {
				return NewRegistry(other, xmlF, jsonF)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			other, err := NewCBORFormatter()
			require.NoError(t, err)
			jsonFormatter := NewJSONFormatter("application/json")
			xmlFormatter := NewXMLFormatter("application/xml")

			RegisterCustomMediaTypes(tt.build(jsonFormatter, xmlFormatter, other))

			assert.Equal(t, []string{"application/json", HATEOASJSON, APIRootJSON}, jsonFormatter.SupportedMediaTypes().Values())
			assert.Equal(t, []string{"application/xml", HATEOASXML, APIRootXML}, xmlFormatter.SupportedMediaTypes().Values())
			assert.Equal(t, []string{"application/cbor"}, other.SupportedMediaTypes().Values())
		})
	}
}

// Registration is not idempotent; a second call duplicates entries.
func TestRegisterCustomMediaTypes_CalledTwice(t *testing.T) {
	t.Parallel()

	jsonFormatter := NewJSONFormatter("application/json")
	xmlFormatter := NewXMLFormatter("application/xml")
	registry := NewRegistry(jsonFormatter, xmlFormatter)

	RegisterCustomMediaTypes(registry)
	RegisterCustomMediaTypes(registry)

	assert.Equal(t, []string{
		"application/json",
		HATEOASJSON, APIRootJSON,
		HATEOASJSON, APIRootJSON,
	}, jsonFormatter.SupportedMediaTypes().Values())
	assert.Equal(t, []string{
		"application/xml",
		HATEOASXML, APIRootXML,
		HATEOASXML, APIRootXML,
	}, xmlFormatter.SupportedMediaTypes().Values())
}

func TestRegisterCustomMediaTypes_Scenario(t *testing.T) {
	t.Parallel()

	xmlFormatter := NewXMLFormatter("application/xml")
	jsonFormatter := NewJSONFormatter("application/json")
	registry := NewRegistry(xmlFormatter, jsonFormatter)

	RegisterCustomMediaTypes(registry)

	assert.Equal(t, []string{
		"application/json",
		"application/vnd.bookapi.hateoas+json",
		"application/vnd.bookapi.apiroot+json",
	}, jsonFormatter.SupportedMediaTypes().Values())
	assert.Equal(t, []string{
		"application/xml",
		"application/vnd.bookapi.hateoas+xml",
		"application/vnd.bookapi.apiroot+xml",
	}, xmlFormatter.SupportedMediaTypes().Values())
}
