package contracts

import "github.com/julienschmidt/httprouter"

// Handler mounts a group of routes on the shared router.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}

// RoutesFunc lets a plain function act as a Handler.
type RoutesFunc func(router *httprouter.Router)

func (f RoutesFunc) RegisterRoutes(router *httprouter.Router) {
	f(router)
}
