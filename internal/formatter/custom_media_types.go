package formatter

// Vendor media types for the BookStore API representations
const (
	// HATEOASJSON requests the hypermedia representation as JSON
	HATEOASJSON = "application/vnd.bookapi.hateoas+json"

	// APIRootJSON requests the API root document as JSON
	APIRootJSON = "application/vnd.bookapi.apiroot+json"

	// HATEOASXML requests the hypermedia representation as XML
	HATEOASXML = "application/vnd.bookapi.hateoas+xml"

	// APIRootXML requests the API root document as XML
	APIRootXML = "application/vnd.bookapi.apiroot+xml"
)

// RegisterCustomMediaTypes adds the vendor media types to the first JSON and
// the first XML formatter of the registry. A family with no formatter is
// skipped. The call is not idempotent: invoking it twice appends the media
// types twice, so it must run exactly once during startup.
func RegisterCustomMediaTypes(r *Registry) {
	if jsonFormatter := r.FirstOfFamily(FamilyJSON); jsonFormatter != nil {
		jsonFormatter.SupportedMediaTypes().Add(HATEOASJSON)
		jsonFormatter.SupportedMediaTypes().Add(APIRootJSON)
	}

	if xmlFormatter := r.FirstOfFamily(FamilyXML); xmlFormatter != nil {
		xmlFormatter.SupportedMediaTypes().Add(HATEOASXML)
		xmlFormatter.SupportedMediaTypes().Add(APIRootXML)
	}
}
