package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/ratelimit"
)

// RegisterRoutes registers all link and account routes. Specific paths are
// registered before the catch-all redirect route.
func RegisterRoutes(api huma.API, links *LinkHandler, accounts *AuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/register",
		Summary:     "Register an account",
		Tags:        []string{"Accounts"},
	}, accounts.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "Log in",
		Description: "Exchanges email and password for a bearer token.",
		Tags:        []string{"Accounts"},
	}, accounts.Login)

	// Write operations get stricter limits than redirects.
	huma.Register(api, huma.Operation{
		OperationID: "shorten",
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short link",
		Description: "Creates a short link under a generated code or a custom alias. Anonymous creation is allowed; only owned links can later be updated or deleted.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.Config{Window: time.Minute, Max: 30},
		},
	}, links.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "search-links",
		Method:      http.MethodGet,
		Path:        "/links/search",
		Summary:     "Search links by destination URL",
		Tags:        []string{"Links"},
	}, links.Search)

	huma.Register(api, huma.Operation{
		OperationID: "list-expired-links",
		Method:      http.MethodGet,
		Path:        "/links/expired",
		Summary:     "List expired links",
		Tags:        []string{"Maintenance"},
	}, links.Expired)

	huma.Register(api, huma.Operation{
		OperationID: "sweep-expired-links",
		Method:      http.MethodDelete,
		Path:        "/links/cleanup",
		Summary:     "Remove expired links",
		Description: "Deletes every expired link from store and cache and reports the count.",
		Tags:        []string{"Maintenance"},
	}, links.Sweep)

	huma.Register(api, huma.Operation{
		OperationID: "link-stats",
		Method:      http.MethodGet,
		Path:        "/links/{code}/stats",
		Summary:     "Get link statistics",
		Tags:        []string{"Links"},
	}, links.Stats)

	huma.Register(api, huma.Operation{
		OperationID: "update-link",
		Method:      http.MethodPut,
		Path:        "/links/{code}",
		Summary:     "Update link destination",
		Description: "Owner-only. The cache entry is invalidated before the call returns.",
		Tags:        []string{"Links"},
	}, links.Update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-link",
		Method:      http.MethodDelete,
		Path:        "/links/{code}",
		Summary:     "Delete link",
		Description: "Owner-only.",
		Tags:        []string{"Links"},
	}, links.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.Config{Window: time.Minute, Max: 1000},
		},
	}, links.Redirect)
}
