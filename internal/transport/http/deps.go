package http

import (
	"github.com/go-clinic-api/internal/application/appointment"
	"github.com/go-clinic-api/internal/application/auth"
	"github.com/go-clinic-api/internal/application/session"
	"github.com/go-clinic-api/internal/application/user"
	jwtinfra "github.com/go-clinic-api/internal/infrastructure/jwt"
)

// Deps holds the services the router exposes. main builds them once from
// the infrastructure clients.
type Deps struct {
	AuthService        auth.Service
	SessionService     session.Service
	UserService        user.Service
	AppointmentService appointment.Service
	JWTProvider        *jwtinfra.Provider
}
