// Package resp provides the JSON response envelope shared by every handler.
//
// Success responses write the payload directly. Failure responses write
//
//	{
//	  "code": -1001,          // Business error code
//	  "message": "...",       // Human-readable message
//	  "errors": {...}         // Error details, e.g. {"position": 7}
//	}
//
// with the HTTP status carried by the Exception.
//
//	resp.Success(w, formula)
//	resp.WithStatusCode(w, http.StatusCreated, formula)
//	resp.Fail(w, resp.BadRequest("name is required"))
//	resp.Fail(w, resp.Code(ecode.FormulaNotFound))
package resp
