// Package apitest runs an in-memory JSON:API server for adapter tests.
//
// The server is a gin engine behind httptest. It stores resources per type,
// records every request it receives and, when a token is configured,
// answers 401 to requests without the matching bearer credential.
//
//	srv := apitest.NewServer(t, apitest.WithToken("abc"))
//	srv.Seed("users", "7", map[string]any{"name": "Ada"})
//	// point the adapter at srv.URL() with namespace srv.Namespace()
package apitest
