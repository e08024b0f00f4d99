// Package ctxutil carries request scoped values (trace id, resolved user id,
// resolved admin) through context.Context and *gin.Context.
//
// Middleware writes values with Bind, which makes them visible both to
// later gin handlers via c.Get and to code that only receives the
// request's context.Context.
package ctxutil
