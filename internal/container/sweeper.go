package container

import (
	"fmt"
	"time"

	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/link"
	"github.com/serroba/shortlink/internal/sweeper"
	"go.uber.org/zap"
)

// SweeperPackage provides the periodic expiry sweeper.
func SweeperPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*sweeper.Sweeper, error) {
		opts := do.MustInvoke[*Options](i)

		interval, err := time.ParseDuration(opts.SweepInterval)
		if err != nil {
			return nil, fmt.Errorf("parse sweep interval %q: %w", opts.SweepInterval, err)
		}

		return sweeper.New(
			do.MustInvoke[*link.Service](i),
			interval,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
