package mediator

import "context"

// Chain composes the middlewares around handler into a single
// continuation. Middlewares execute in slice order on the way in and in
// reverse order on the way out: the first middleware is outermost and the
// last one sits closest to the handler. The canonical registration order
// is authorization, then validation, then anything else, so an
// unauthorized request never reaches validation rules that may touch
// external state.
func Chain(handler HandlerFunc, middlewares ...Middleware) HandlerFunc {
	next := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw := middlewares[i]
		inner := next
		next = func(ctx context.Context, request Request) Result {
			return mw(ctx, request, inner)
		}
	}
	return next
}
