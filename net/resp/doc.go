// Package resp writes the JSON envelope every shopfront endpoint answers
// with:
//
//	{
//	  "success": true,        // false on failure
//	  "error": false,         // true on failure
//	  "message": "ok",
//	  "code": -103,           // business code, failures only
//	  "data": {...},          // payload on success
//	  "errors": {...}         // details on failure
//	}
//
// Success responses:
//
//	resp.Success(w, "login successful", result)
//	resp.WithStatusCode(w, http.StatusCreated, "user registered", result)
//
// Failure responses are built from service errors:
//
//	if err != nil {
//	    resp.Fail(w, resp.FromError(err))
//	    return
//	}
package resp
