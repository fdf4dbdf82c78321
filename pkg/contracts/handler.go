package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service's HTTP layer; pkg/app mounts it
// behind the API middleware chain.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
