// Package adapter connects a client data layer to a remote JSON:API
// resource API.
//
// A ResourceAdapter is created once from Config and an authorizer Registry:
//
//	a, err := adapter.New(adapter.Config{
//	    Host:       "https://api.example.com",
//	    Namespace:  "v1",
//	    Authorizer: "authorizer:application",
//	}, authorizer.NewDefaultRegistry(authorizer.DefaultPolicy()), sess, client)
//
//	u, _ := a.BuildURL("users", "7") // https://api.example.com/v1/users/7
//
// Every request is decorated with the authorizer's headers for the current
// session. When a response status is an authorization failure and the
// session is still authenticated, the adapter asks the session to
// invalidate itself. It never retries, re-authenticates or replays the
// request. Transport errors reach the caller unchanged.
package adapter
