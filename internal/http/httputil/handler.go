package httputil

import "github.com/gin-gonic/gin"

// IHttpHandler is a group of routes mounted under Root on the public,
// private and admin API groups.
type IHttpHandler interface {
	Root() string
	SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup)
}

// Mount registers every handler on its own sub-group.
func Mount(pub, priv, admin *gin.RouterGroup, handlers ...IHttpHandler) {
	for _, h := range handlers {
		h.SetRoutes(pub.Group(h.Root()), priv.Group(h.Root()), admin.Group(h.Root()))
	}
}
