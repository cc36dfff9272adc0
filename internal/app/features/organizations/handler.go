// internal/app/features/organizations/handler.go
package organizations

import (
	"time"

	"go.uber.org/zap"

	"github.com/voluntahub/voluntahub/internal/app/policy/orgpolicy"
	organizationstore "github.com/voluntahub/voluntahub/internal/app/store/organizations"
	statstore "github.com/voluntahub/voluntahub/internal/app/store/stats"
)

const (
	orgsShortTimeout = 5 * time.Second
	orgsMedTimeout   = 10 * time.Second
)

// Handler is the feature-level entry point for Organizations.
type Handler struct {
	Orgs   *organizationstore.Store
	Stats  *statstore.Store
	Policy *orgpolicy.Policy
	Log    *zap.Logger
}

func NewHandler(orgs *organizationstore.Store, stats *statstore.Store, policy *orgpolicy.Policy, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:   orgs,
		Stats:  stats,
		Policy: policy,
		Log:    logger,
	}
}
