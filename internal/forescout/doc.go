// Package forescout provides HTTP clients for the appliance's Admin API and
// Web API.
//
// Both APIs share one Session implementation. The differences between them
// (base path, login payload, token format, Authorization header) live in a
// Variant value:
//
//	admin := forescout.NewAdminClient(forescout.Credentials{
//	    BaseURL:  "https://10.0.0.5",
//	    Username: "api-user",
//	    Password: "secret",
//	})
//
//	ok, err := admin.Login(ctx)
//	if err != nil || !ok {
//	    // transport failure or rejected credentials
//	}
//
//	path, doc, err := admin.BackupSegments(ctx, store)
//
// # Rate Limiting
//
// Every request goes through an Executor. When the appliance answers
// 429 with a body such as
//
//	{"errors": ["Too many requests. Wait 5 seconds"]}
//
// the executor sleeps for the announced duration plus a safety margin and
// sends the same request again, for as long as it takes. Callers never see
// the 429. A 429 without a readable wait duration is returned as a
// transport failure.
//
// # Error Handling
//
// Failures are reported as *Error values carrying an ErrorKind. Use the
// Is* predicates to branch and Hint to get operator-facing advice.
// Login and UpdateConfiguration report HTTP outcomes as values, not errors:
// Login returns false for a rejected login, UpdateConfiguration returns the
// status and body of every answer.
package forescout
