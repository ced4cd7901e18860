// Package ctxutil carries request scoped values through context.Context and
// *gin.Context: the trace id, the client address and the originating gin
// context.
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	ip := ctxutil.GetClientIP(ctx)
package ctxutil
