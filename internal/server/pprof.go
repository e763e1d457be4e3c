package server

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// NewPprofServer builds the pprof server for a separate address.
// This should only be accessible internally or via SSH tunnel
func NewPprofServer(addr string) *http.Server {
	pprofRouter := gin.New()
	pprof.Register(pprofRouter)
	return &http.Server{Addr: addr, Handler: pprofRouter}
}
