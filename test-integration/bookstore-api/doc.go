// Package integration contains end-to-end tests that boot the bookstore API
// from a configuration file and exercise it over real HTTP.
package integration
