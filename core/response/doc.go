// Package response provides constructors for handler.Response values.
//
// Every constructor returns a deferred rendering function, so building a
// response performs no I/O. Middleware can wrap, replace, or decorate a
// response before anything is written to the client.
//
// Plain bodies:
//
//	return response.String("pong")
//	return response.JSON(user)
//	return response.JSONWithStatus(user, http.StatusCreated)
//
// Errors are propagated, not written. The router's error handler decides the
// final wire format:
//
//	return response.Error(response.ErrNotFound.WithMessage("no such user"))
//
// Decorators compose with any response:
//
//	return response.WithCookie(response.JSON(session), cookie)
package response
