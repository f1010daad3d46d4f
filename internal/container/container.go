package container

import (
	"context"
	"time"

	"go.uber.org/zap"

	app "kino-bot/internal/application"
	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// Deps внешние зависимости, из которых собираются сервисы
type Deps struct {
	AdminID  int64
	Catalog  port.CatalogRepository
	Mirror   port.CatalogMirror
	Sessions port.SessionRepository
	Users    port.UserRepository
	Checker  port.MembershipChecker
	Channels []entity.Channel
	Resolver port.MediaResolver

	HTTPTimeout   time.Duration
	MirrorTimeout time.Duration
}

type Container struct {
	Catalog  *app.CatalogService
	Sessions *app.SessionService
	Users    *app.UserRegistry
	Gate     *app.SubscriptionGate
	Search   *app.SearchService
	Admin    *app.AdminService
	Resolve  *app.ResolveService
}

func New(ctx context.Context, deps Deps, log *zap.Logger) *Container {
	catalog := app.NewCatalogService(ctx, deps.Catalog, deps.Mirror, log.Named("catalog"), deps.MirrorTimeout)
	sessions := app.NewSessionService(deps.Sessions, log.Named("session"))
	users := app.NewUserRegistry(deps.Users)
	gate := app.NewSubscriptionGate(deps.Checker, deps.Channels, deps.HTTPTimeout, log.Named("gate"))

	c := &Container{
		Catalog:  catalog,
		Sessions: sessions,
		Users:    users,
		Gate:     gate,
		Search:   app.NewSearchService(catalog, sessions, gate),
		Admin:    app.NewAdminService(deps.AdminID, catalog, sessions, users),
	}
	if deps.Resolver != nil {
		c.Resolve = app.NewResolveService(deps.Resolver, sessions, deps.HTTPTimeout, log.Named("resolve"))
	}
	return c
}
