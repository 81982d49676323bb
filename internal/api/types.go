// Package api provides the HTTP server of the bookstore API.
package api

import "encoding/xml"

// HealthResponse is returned by /health
type HealthResponse struct {
	XMLName xml.Name `json:"-" xml:"health"`
	Status  string   `json:"status" xml:"status"`
}

// ReadinessResponse is returned by /readiness
type ReadinessResponse struct {
	XMLName xml.Name `json:"-" xml:"readiness"`
	Status  string   `json:"status" xml:"status"`
}

// Link is a hypermedia link of the API root document
type Link struct {
	Href   string `json:"href" xml:"href"`
	Rel    string `json:"rel" xml:"rel"`
	Method string `json:"method" xml:"method"`
}

// RootDocument is the API root representation
type RootDocument struct {
	XMLName xml.Name `json:"-" xml:"root"`
	Links   []Link   `json:"links" xml:"link"`
}
