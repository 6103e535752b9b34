// Package reqctx carries request-scoped values through context.Context.
//
// Handlers and services never read the current user from package state:
// the auth middleware resolves the bearer token once per request and stores
// the claims with WithClaims, and everything downstream reads them back
// with ClaimsFromContext.
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: id})
//	ctx = reqctx.WithClaims(ctx, claims)
//
//	if reqctx.IsAuthenticated(ctx) {
//	    userID, _ := reqctx.UserIDFromContext(ctx)
//	}
//
// Keys are unexported so other packages cannot collide with them.
package reqctx
