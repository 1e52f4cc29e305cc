package controller

import (
	"context"
	"net/http"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/registry"
	"github.com/shopmonkeyus/go-common/logger"
)

// TokenValidation is the outcome of the external token check. User is opaque
// to this package and only handed back to the permission checker.
type TokenValidation struct {
	IsTokenValid bool
	User         any
	ErrorMessage string
}

// PermissionChecker is the external collaborator that authenticates requests
// and evaluates role membership.
type PermissionChecker interface {
	EnsureValidToken(r *http.Request) TokenValidation
	CheckUserForRoles(user any, roleIDs []string) bool
}

// CustomFetchFunc supplies records for a page whose fetch strategy bypasses
// schema-driven query building entirely.
type CustomFetchFunc func(ctx context.Context, input internal.RecordsInput) (*internal.RecordsResult, error)

// CustomActionFunc handles a developer-registered action outside the table
// operation set.
type CustomActionFunc func(ctx context.Context, input map[string]any) (any, error)

// StageProduction enables role checks; any other stage skips them so local
// development does not require a full role setup.
const StageProduction = "production"

// Controller resolves configuration, enforces permissions and dispatches
// table actions to the adapter owning the page's data source. It holds no
// per-request state; one instance serves concurrent requests.
type Controller struct {
	logger        logger.Logger
	stage         string
	registry      *registry.Registry
	permissions   PermissionChecker
	adapters      map[string]internal.Adapter
	pageOverrides map[string]internal.TablePageConfig
	customFetch   map[string]CustomFetchFunc
	customActions map[string]CustomActionFunc
}

// Config carries the collaborators a Controller needs.
type Config struct {
	Logger      logger.Logger
	Stage       string
	Registry    *registry.Registry
	Permissions PermissionChecker
}

func New(config Config) *Controller {
	return &Controller{
		logger:        config.Logger.WithPrefix("[controller]"),
		stage:         config.Stage,
		registry:      config.Registry,
		permissions:   config.Permissions,
		adapters:      make(map[string]internal.Adapter),
		pageOverrides: make(map[string]internal.TablePageConfig),
		customFetch:   make(map[string]CustomFetchFunc),
		customActions: make(map[string]CustomActionFunc),
	}
}

// RegisterDataSource attaches a started adapter under the data source name.
func (c *Controller) RegisterDataSource(name string, adapter internal.Adapter) {
	c.adapters[name] = adapter
}

// ConfigurePage registers a programmatic partial configuration that is merged
// over the stored page document on every request.
func (c *Controller) ConfigurePage(pageKey string, config internal.TablePageConfig) {
	c.pageOverrides[pageKey] = config
}

// RegisterCustomFetch installs the fetch function used when a page declares
// the customFetch strategy.
func (c *Controller) RegisterCustomFetch(pageKey string, fn CustomFetchFunc) {
	c.customFetch[pageKey] = fn
}

// RegisterCustomAction installs a handler for the custom action under the
// given name.
func (c *Controller) RegisterCustomAction(name string, fn CustomActionFunc) {
	c.customActions[name] = fn
}

// resolvePageConfig merges the stored page document with any programmatic
// override for the page.
func (c *Controller) resolvePageConfig(pageKey string) internal.TablePageConfig {
	stored, _ := c.registry.Page(pageKey)
	if override, ok := c.pageOverrides[pageKey]; ok {
		return internal.MergeTablePageConfig(stored, override)
	}
	return stored
}
