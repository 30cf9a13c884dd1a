package handler

import (
	"agrow/internal/app/auth"
	"agrow/internal/app/upstream"
	"agrow/internal/configs"
)

// AppDeps bundles the services handlers need. Built once in main; no
// ambient singletons.
type AppDeps struct {
	Config   *configs.AppConfig
	Auth     *auth.Service
	Upstream *upstream.Client
}
