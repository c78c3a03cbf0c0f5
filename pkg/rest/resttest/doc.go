// Package resttest provides an in-memory REST backend for tests, examples
// and the restbind-cli demo mode.
//
// A Server implements http.Handler with the resource contract the binding
// layer expects: listing, read, create and replace over JSON. Resources are
// registered up front; requests against unknown paths return 404.
//
//	backend := resttest.NewServer()
//	backend.Seed("/api/todos",
//	    map[string]any{"title": "write tests"},
//	    map[string]any{"title": "ship"},
//	)
//	srv := httptest.NewServer(backend)
//	defer srv.Close()
//
// Created records without an "id" receive an incrementing integer one.
// Listings preserve insertion order.
package resttest
