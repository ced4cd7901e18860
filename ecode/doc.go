// Package ecode defines the business error codes returned in API responses,
// their messages and their HTTP status mapping.
//
// # Error Code Convention
//
//   - 0: Success (OK)
//   - -100 to -199: Authentication/authorization errors
//   - -400 to -499: Request and resource errors, mirroring HTTP 4xx
//   - -500 to -599: Server and upstream errors, mirroring HTTP 5xx
//   - -1000 and below: Formula and screening errors
//
// # Usage
//
//	resp.Fail(w, &resp.Exception{
//	    Status:  ecode.ToHTTPStatus(ecode.FormulaSyntaxErr),
//	    Code:    ecode.FormulaSyntaxErr,
//	    Message: ecode.Text(ecode.FormulaSyntaxErr),
//	})
//
// Applications may register additional codes with Register.
package ecode
